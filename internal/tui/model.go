package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/zhihu-cli/internal/controller"
	"github.com/glabrego/zhihu-cli/internal/credential"
	"github.com/glabrego/zhihu-cli/internal/tui/actions"
	"github.com/glabrego/zhihu-cli/internal/tui/platform"
	"github.com/glabrego/zhihu-cli/internal/tui/state"
	tuitheme "github.com/glabrego/zhihu-cli/internal/tui/theme"
	"github.com/glabrego/zhihu-cli/internal/tui/view"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	defaultImageMaxWidth = 600
)

type focus int

const (
	focusTopics focus = iota
	focusContent
)

type Options struct {
	ImageMaxWidth int
	OpenURL       func(string) error
	CopyURL       func(string) error
}

type Model struct {
	ctrl   *controller.Controller
	gate   *credential.Gate
	screen *Screen
	theme  tuitheme.Theme

	keys        keyMap
	help        help.Model
	viewport    viewport.Model
	spinner     spinner.Model
	cookieInput textinput.Model

	cursor        int
	cursorID      string
	focus         focus
	width         int
	height        int
	editingCookie bool
	spinning      bool

	status    string
	statusID  int
	statusTTL time.Duration
	warning   string

	openURLFn     func(string) error
	copyURLFn     func(string) error
	imageMaxWidth int

	seenTopicsVersion int
	renderedVersion   int
	renderedWidth     int
}

// NewModel builds the reader and the controller behind it. ctrlOpts.View is
// replaced by the model's own screen.
func NewModel(ctrlOpts controller.Options, opts Options) Model {
	if ctrlOpts.Gate == nil {
		ctrlOpts.Gate = credential.NewGate("")
	}
	screen := NewScreen()
	ctrlOpts.View = screen

	openFn := opts.OpenURL
	if openFn == nil {
		openFn = platform.OpenURLInBrowser
	}
	copyFn := opts.CopyURL
	if copyFn == nil {
		copyFn = platform.CopyURLToClipboard
	}
	imageMaxWidth := opts.ImageMaxWidth
	if imageMaxWidth <= 0 {
		imageMaxWidth = defaultImageMaxWidth
	}

	th := tuitheme.Default()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.StateLoad))

	input := textinput.New()
	input.Prompt = "cookie> "
	input.Placeholder = "z_c0=...; d_c0=..."
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctrl:          controller.New(ctrlOpts),
		gate:          ctrlOpts.Gate,
		screen:        screen,
		theme:         th,
		keys:          defaultKeyMap(),
		help:          help.New(),
		viewport:      viewport.New(defaultWidth, defaultHeight),
		spinner:       sp,
		cookieInput:   input,
		statusTTL:     3 * time.Second,
		openURLFn:     openFn,
		copyURLFn:     copyFn,
		imageMaxWidth: imageMaxWidth,
	}
	m.renderedVersion = -1
	return m
}

func (m Model) Init() tea.Cmd {
	return m.ctrl.Start()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.ctrl.Update(msg); handled {
		if saveErr, ok := msg.(controller.SettingsSaveErrorMsg); ok {
			m.warning = "Could not persist settings: " + saveErr.Err.Error()
		}
		return m.finish(cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.finish(nil)
	case spinner.TickMsg:
		if !m.loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case actions.OpenURLSuccessMsg:
		cmd := m.setStatus(msg.Status)
		return m, cmd
	case actions.OpenURLErrorMsg:
		cmd := m.setStatus(msg.Err.Error())
		return m, cmd
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.editingCookie {
			return m.updateCookieInput(msg)
		}
		return m.handleKey(msg)
	}

	if m.focus == focusContent {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.finish(nil)
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusTopics {
			m.focus = focusContent
		} else {
			m.focus = focusTopics
		}
		return m, nil
	case key.Matches(msg, m.keys.Cookie):
		return m.openCookieInput()
	case key.Matches(msg, m.keys.Refresh):
		return m.finish(m.ctrl.RefreshFeed())
	case key.Matches(msg, m.keys.Next):
		return m.finish(m.ctrl.NextPage())
	case key.Matches(msg, m.keys.Prev):
		return m.finish(m.ctrl.PrevPage())
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.ctrl.ToggleRenderMode()
		clearCmd := m.setStatus("Render mode: " + m.ctrl.State().Mode.String())
		return m.finish(tea.Batch(cmd, clearCmd))
	case key.Matches(msg, m.keys.Open):
		return m.withSelectedURL(func(url string) tea.Cmd {
			return actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
		})
	case key.Matches(msg, m.keys.Copy):
		return m.withSelectedURL(func(url string) tea.Cmd {
			return actions.CopyURLCmd(url, m.copyURLFn)
		})
	case key.Matches(msg, m.keys.Select):
		topics := m.screen.Topics()
		if len(topics) == 0 {
			return m, nil
		}
		m.cursor = state.ClampCursor(m.cursor, len(topics))
		m.focus = focusContent
		return m.finish(m.ctrl.SelectTopic(topics[m.cursor].ID))
	}

	if m.focus == focusContent {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	_, height := m.size()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= state.PageStep(height, m.status != "")
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += state.PageStep(height, m.status != "")
	}
	return m.finish(nil)
}

func (m Model) openCookieInput() (tea.Model, tea.Cmd) {
	value, _ := m.gate.Get()
	m.cookieInput.SetValue(value)
	m.cookieInput.CursorEnd()
	m.editingCookie = true
	cmd := m.cookieInput.Focus()
	return m, cmd
}

func (m Model) updateCookieInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeCookieInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.cookieInput.Value())
		m.closeCookieInput()
		m.warning = ""
		status := "Cookie saved"
		if value == "" {
			status = "Cookie cleared"
		}
		cmd := m.ctrl.SetCredential(value)
		clearCmd := m.setStatus(status)
		return m.finish(tea.Batch(cmd, clearCmd))
	}
	var cmd tea.Cmd
	m.cookieInput, cmd = m.cookieInput.Update(msg)
	return m, cmd
}

func (m *Model) closeCookieInput() {
	m.editingCookie = false
	m.cookieInput.Blur()
	m.cookieInput.SetValue("")
}

func (m Model) withSelectedURL(run func(string) tea.Cmd) (tea.Model, tea.Cmd) {
	url, err := platform.ValidateURL(m.ctrl.State().Selected.URL())
	if err != nil {
		cmd := m.setStatus(err.Error())
		return m, cmd
	}
	return m, run(url)
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusID++
	return actions.ClearStatusCmd(m.statusID, m.statusTTL)
}

// finish syncs layout with whatever the controller just drew and keeps the
// spinner running while anything loads.
func (m Model) finish(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.syncLayout()
	if m.loading() && !m.spinning {
		m.spinning = true
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m *Model) syncLayout() {
	width, _ := m.size()
	topics := m.screen.Topics()
	m.keys.apply(m.screen.Navigation(), len(topics) > 0)
	m.help.Width = width

	if m.screen.topicsVersion != m.seenTopicsVersion {
		m.seenTopicsVersion = m.screen.topicsVersion
		m.cursor = max(state.TopicIndexByID(topics, m.cursorID), 0)
	}
	m.cursor = state.ClampCursor(m.cursor, len(topics))
	if len(topics) > 0 {
		m.cursorID = topics[m.cursor].ID
	}

	_, contentW := state.SplitWidth(width)
	m.viewport.Width = max(contentW-2, 1)
	m.viewport.Height = m.paneHeight(m.help.View(m.keys))

	if m.screen.version == m.renderedVersion && m.viewport.Width == m.renderedWidth {
		return
	}
	fresh := m.screen.version != m.renderedVersion
	m.viewport.SetContent(strings.Join(m.screen.Lines(m.viewport.Width, m.imageMaxWidth), "\n"))
	if fresh {
		m.viewport.GotoTop()
	}
	m.renderedVersion = m.screen.version
	m.renderedWidth = m.viewport.Width
}

func (m Model) View() string {
	m.syncLayout()
	width, _ := m.size()
	listW, contentW := state.SplitWidth(width)
	nav := m.screen.Navigation()
	selected := m.ctrl.State()
	helpView := m.help.View(m.keys)
	inner := m.paneHeight(helpView)

	selectedID := ""
	if selected.HasSelected {
		selectedID = selected.Selected.ID
	}
	topicLines := view.RenderTopicList(m.screen.Topics(), m.cursor, selectedID, max(listW-2, 1), inner, m.theme)
	left := m.theme.Pane(m.focus == focusTopics).
		Width(max(listW-2, 1)).
		Height(inner).
		Render(strings.Join(topicLines, "\n"))
	right := m.theme.Pane(m.focus == focusContent).
		Width(max(contentW-2, 1)).
		Height(inner).
		Render(m.viewport.View())

	var b strings.Builder
	b.WriteString(view.Header(nav, selected.Selected.Title, width, m.theme))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.messageLine(nav))
	b.WriteString("\n")
	b.WriteString(view.Footer(nav, len(m.screen.Topics()), m.theme))
	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}

func (m Model) messageLine(nav controller.Navigation) string {
	if m.editingCookie {
		return m.cookieInput.View()
	}
	line := view.Message(nav, m.status, m.warning, m.theme)
	if m.loading() {
		return m.spinner.View() + " " + line
	}
	return line
}

func (m Model) loading() bool {
	nav := m.screen.Navigation()
	return nav.Loading || nav.FeedLoading
}

func (m Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// paneHeight is the inner height of both panes once the header, status,
// footer, help and pane borders are placed.
func (m Model) paneHeight(helpView string) int {
	_, height := m.size()
	h := height - 3 - lipgloss.Height(helpView) - 2
	if h < 3 {
		h = 3
	}
	return h
}
