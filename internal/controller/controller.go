// Package controller owns the load state behind the reader: the topic list,
// the selected topic, the page offset and the render mode. All methods run on
// the bubbletea update loop; network work is returned as tea.Cmd and its
// results come back as messages stamped with the generation they were issued
// under. Results whose generation is no longer current are dropped.
package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/zhihu-cli/internal/credential"
	"github.com/glabrego/zhihu-cli/internal/logging"
	"github.com/glabrego/zhihu-cli/internal/render/answers"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

type Fetcher interface {
	FetchFeed(ctx context.Context) ([]zhihu.Topic, error)
	FetchReplies(ctx context.Context, topicID string, offset int) ([]zhihu.Reply, error)
}

// View is the host surface the controller draws on. Every content call
// carries the render mode so the host never has to track it separately.
type View interface {
	RenderTopics(topics []zhihu.Topic)
	RenderFeedLoading(mode answers.Mode)
	RenderLoading(title string, mode answers.Mode)
	RenderReplies(page answers.Page, mode answers.Mode)
	RenderEmpty(mode answers.Mode)
	RenderSelectPrompt(mode answers.Mode)
	RenderError(message string, mode answers.Mode)
	RenderCredentialRequired(mode answers.Mode)
	RenderNavigation(nav Navigation)
}

// Navigation is the enabled state of every user action plus the page label.
type Navigation struct {
	Refresh     bool
	Next        bool
	Prev        bool
	ToggleMode  bool
	OpenTopic   bool
	Mode        answers.Mode
	PageLabel   string
	Loading     bool
	FeedLoading bool
}

// Settings is the persisted pair handed to the host on every change.
type Settings struct {
	Mode          answers.Mode
	Credential    string
	HasCredential bool
}

type SettingsSaver func(Settings) error

// LoadState is the reader state. Offset is always a multiple of
// zhihu.PageSize and HasMore is recomputed after every replies fetch.
type LoadState struct {
	Selected    zhihu.Topic
	HasSelected bool
	Offset      int
	Mode        answers.Mode
	Items       []zhihu.Reply
	HasMore     bool
}

type screen int

const (
	screenCredential screen = iota
	screenFeedLoading
	screenEmptyFeed
	screenSelectPrompt
	screenLoading
	screenReplies
	screenError
)

type FeedLoadedMsg struct {
	Generation uint64
	Topics     []zhihu.Topic
	Err        error
	Duration   time.Duration
}

type RepliesLoadedMsg struct {
	Generation uint64
	TopicID    string
	Offset     int
	Replies    []zhihu.Reply
	Err        error
	Duration   time.Duration
}

type SettingsSaveErrorMsg struct {
	Err error
}

type Options struct {
	Fetcher Fetcher
	Gate    *credential.Gate
	View    View
	Save    SettingsSaver
	Logger  *log.Logger
	Mode    answers.Mode
	// FetchTimeout bounds one feed or replies load. Zero leaves it to the
	// transport's per-request timeout.
	FetchTimeout time.Duration
}

type Controller struct {
	fetcher Fetcher
	gate    *credential.Gate
	view    View
	saver   *settingsWriter
	logger  *log.Logger
	timeout time.Duration

	topics         []zhihu.Topic
	state          LoadState
	screen         screen
	errMessage     string
	generation     uint64
	loading        bool
	loadingTopicID string
	feedLoading    bool
	feedLoaded     bool
}

func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	gate := opts.Gate
	if gate == nil {
		gate = credential.NewGate("")
	}
	return &Controller{
		fetcher: opts.Fetcher,
		gate:    gate,
		view:    opts.View,
		saver:   newSettingsWriter(opts.Save),
		logger:  logger,
		timeout: opts.FetchTimeout,
		state:   LoadState{Mode: opts.Mode},
	}
}

// Start draws the initial screen and loads the feed when a credential is set.
func (c *Controller) Start() tea.Cmd {
	if !c.gate.IsValid() {
		c.showCredentialRequired()
		return nil
	}
	return c.RefreshFeed()
}

func (c *Controller) State() LoadState {
	s := c.state
	s.Items = append([]zhihu.Reply(nil), c.state.Items...)
	return s
}

func (c *Controller) Topics() []zhihu.Topic {
	return append([]zhihu.Topic(nil), c.topics...)
}

func (c *Controller) Navigation() Navigation {
	valid := c.gate.IsValid()
	nav := Navigation{
		Refresh:     valid,
		Prev:        valid && c.state.Offset >= zhihu.PageSize,
		Next:        valid && c.state.HasSelected && !c.loading && c.state.HasMore,
		ToggleMode:  true,
		OpenTopic:   c.state.HasSelected,
		Mode:        c.state.Mode,
		Loading:     c.loading,
		FeedLoading: c.feedLoading,
	}
	if c.state.HasSelected {
		nav.PageLabel = c.page().Label()
	}
	return nav
}

// RefreshFeed clears the topic list and reloads it.
func (c *Controller) RefreshFeed() tea.Cmd {
	if !c.gate.IsValid() {
		c.showCredentialRequired()
		return nil
	}
	gen := c.bump()
	c.topics = nil
	c.resetSelection()
	c.feedLoading = true
	c.view.RenderTopics(nil)
	c.show(screenFeedLoading)
	return c.fetchFeedCmd(gen)
}

// SelectTopic starts loading the first page of answers for topicID. It is a
// no-op when that topic is already loading or is not in the current list.
func (c *Controller) SelectTopic(topicID string) tea.Cmd {
	topic, ok := c.findTopic(topicID)
	if !ok {
		return nil
	}
	if !c.gate.IsValid() {
		c.showCredentialRequired()
		return nil
	}
	if c.loading && c.loadingTopicID == topicID {
		return nil
	}
	c.state.Selected = topic
	c.state.HasSelected = true
	return c.loadPage(0)
}

func (c *Controller) NextPage() tea.Cmd {
	if !c.Navigation().Next {
		return nil
	}
	return c.loadPage(c.state.Offset + zhihu.PageSize)
}

func (c *Controller) PrevPage() tea.Cmd {
	if !c.Navigation().Prev {
		return nil
	}
	return c.loadPage(c.state.Offset - zhihu.PageSize)
}

// ToggleRenderMode flips the mode and redraws from stored data. It does not
// bump the generation: a fetch in flight is still for the current page.
func (c *Controller) ToggleRenderMode() tea.Cmd {
	c.state.Mode = c.state.Mode.Toggle()
	c.redraw()
	c.renderNavigation()
	return c.saveCmd()
}

// SetCredential stores a new credential. Clearing it drops all state; setting
// one when no feed has been loaded starts a feed load.
func (c *Controller) SetCredential(value string) tea.Cmd {
	value = strings.TrimSpace(value)
	if value == "" {
		c.gate.Clear()
	} else {
		c.gate.Set(value)
	}
	save := c.saveCmd()

	if !c.gate.IsValid() {
		c.bump()
		c.topics = nil
		c.resetSelection()
		c.feedLoading = false
		c.feedLoaded = false
		c.view.RenderTopics(nil)
		c.showCredentialRequired()
		return save
	}
	if !c.feedLoaded && !c.feedLoading {
		return tea.Batch(save, c.RefreshFeed())
	}
	c.renderNavigation()
	return save
}

// Update applies controller messages. handled is false for messages the
// controller does not own.
func (c *Controller) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case FeedLoadedMsg:
		c.applyFeed(msg)
		return nil, true
	case RepliesLoadedMsg:
		c.applyReplies(msg)
		return nil, true
	case SettingsSaveErrorMsg:
		c.logger.Warn("save settings failed", "err", msg.Err)
		return nil, true
	}
	return nil, false
}

func (c *Controller) applyFeed(msg FeedLoadedMsg) {
	if msg.Generation != c.generation {
		c.logger.Debug("discarding stale feed", "generation", msg.Generation, "current", c.generation)
		return
	}
	c.feedLoading = false
	if msg.Err != nil {
		c.logger.Error("feed load failed", "err", msg.Err, "duration", msg.Duration)
		c.topics = nil
		c.view.RenderTopics(nil)
		c.showFailure(msg.Err)
		return
	}
	c.feedLoaded = true
	c.topics = msg.Topics
	c.logger.Info("feed loaded", "topics", len(msg.Topics), "duration", msg.Duration)
	c.view.RenderTopics(c.Topics())
	if len(c.topics) == 0 {
		c.show(screenEmptyFeed)
		return
	}
	c.show(screenSelectPrompt)
}

func (c *Controller) applyReplies(msg RepliesLoadedMsg) {
	if msg.Generation != c.generation {
		c.logger.Debug("discarding stale replies",
			"topic", msg.TopicID, "offset", msg.Offset,
			"generation", msg.Generation, "current", c.generation)
		return
	}
	c.loading = false
	c.loadingTopicID = ""
	if msg.Err != nil {
		c.logger.Error("replies load failed", "topic", msg.TopicID, "offset", msg.Offset, "err", msg.Err)
		c.state.Items = nil
		c.state.HasMore = false
		c.showFailure(msg.Err)
		return
	}
	c.state.Items = msg.Replies
	c.state.HasMore = len(msg.Replies) == zhihu.PageSize
	c.logger.Info("replies loaded",
		"topic", msg.TopicID, "offset", msg.Offset,
		"replies", len(msg.Replies), "duration", msg.Duration)
	c.show(screenReplies)
}

func (c *Controller) loadPage(offset int) tea.Cmd {
	gen := c.bump()
	c.state.Offset = offset
	c.state.Items = nil
	c.state.HasMore = false
	c.loading = true
	c.loadingTopicID = c.state.Selected.ID
	c.show(screenLoading)
	return c.fetchRepliesCmd(gen, c.state.Selected.ID, offset)
}

func (c *Controller) showFailure(err error) {
	if errors.Is(err, zhihu.ErrAuth) {
		c.show(screenCredential)
		return
	}
	c.errMessage = err.Error()
	c.show(screenError)
}

func (c *Controller) showCredentialRequired() {
	c.show(screenCredential)
}

func (c *Controller) show(s screen) {
	c.screen = s
	c.redraw()
	c.renderNavigation()
}

func (c *Controller) redraw() {
	mode := c.state.Mode
	switch c.screen {
	case screenCredential:
		c.view.RenderCredentialRequired(mode)
	case screenFeedLoading:
		c.view.RenderFeedLoading(mode)
	case screenEmptyFeed:
		c.view.RenderEmpty(mode)
	case screenSelectPrompt:
		c.view.RenderSelectPrompt(mode)
	case screenLoading:
		c.view.RenderLoading(c.state.Selected.Title, mode)
	case screenReplies:
		c.view.RenderReplies(c.page(), mode)
	case screenError:
		c.view.RenderError(c.errMessage, mode)
	}
}

func (c *Controller) renderNavigation() {
	c.view.RenderNavigation(c.Navigation())
}

func (c *Controller) page() answers.Page {
	return answers.Page{
		Topic:   c.state.Selected,
		Offset:  c.state.Offset,
		Replies: c.state.Items,
	}
}

func (c *Controller) resetSelection() {
	mode := c.state.Mode
	c.state = LoadState{Mode: mode}
	c.loading = false
	c.loadingTopicID = ""
}

func (c *Controller) findTopic(id string) (zhihu.Topic, bool) {
	for _, t := range c.topics {
		if t.ID == id {
			return t, true
		}
	}
	return zhihu.Topic{}, false
}

func (c *Controller) bump() uint64 {
	c.generation++
	return c.generation
}

func fetchContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *Controller) fetchFeedCmd(gen uint64) tea.Cmd {
	fetcher, timeout := c.fetcher, c.timeout
	return func() tea.Msg {
		ctx, cancel := fetchContext(timeout)
		defer cancel()
		start := time.Now()

		topics, err := fetcher.FetchFeed(ctx)
		return FeedLoadedMsg{Generation: gen, Topics: topics, Err: err, Duration: time.Since(start)}
	}
}

func (c *Controller) fetchRepliesCmd(gen uint64, topicID string, offset int) tea.Cmd {
	fetcher, timeout := c.fetcher, c.timeout
	return func() tea.Msg {
		ctx, cancel := fetchContext(timeout)
		defer cancel()
		start := time.Now()

		replies, err := fetcher.FetchReplies(ctx, topicID, offset)
		return RepliesLoadedMsg{
			Generation: gen,
			TopicID:    topicID,
			Offset:     offset,
			Replies:    replies,
			Err:        err,
			Duration:   time.Since(start),
		}
	}
}

// saveCmd snapshots the settings now and persists them off the update loop.
// Saves may finish in any order; the writer drops ones that were superseded.
func (c *Controller) saveCmd() tea.Cmd {
	if c.saver == nil {
		return nil
	}
	value, ok := c.gate.Get()
	settings := Settings{Mode: c.state.Mode, Credential: value, HasCredential: ok}
	seq := c.saver.next()
	saver, logger := c.saver, c.logger
	return func() tea.Msg {
		skipped, err := saver.write(seq, settings)
		if err != nil {
			return SettingsSaveErrorMsg{Err: err}
		}
		if skipped {
			logger.Debug("dropped superseded settings save", "seq", seq)
		}
		return nil
	}
}
