package tui

import (
	"github.com/glabrego/zhihu-cli/internal/controller"
	"github.com/glabrego/zhihu-cli/internal/render/answers"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

// Screen is the controller's drawing surface. It records what should be on
// screen; Model turns that into terminal lines at the current width.
type Screen struct {
	topics        []zhihu.Topic
	topicsVersion int

	nav controller.Navigation

	page    answers.Page
	hasPage bool
	notice  answers.Notice
	mode    answers.Mode
	version int
}

var _ controller.View = (*Screen)(nil)

func NewScreen() *Screen {
	return &Screen{}
}

func (s *Screen) RenderTopics(topics []zhihu.Topic) {
	s.topics = append([]zhihu.Topic(nil), topics...)
	s.topicsVersion++
}

func (s *Screen) RenderFeedLoading(mode answers.Mode) {
	s.showNotice(answers.FeedLoadingNotice(), mode)
}

func (s *Screen) RenderLoading(title string, mode answers.Mode) {
	s.showNotice(answers.LoadingNotice(title), mode)
}

func (s *Screen) RenderReplies(page answers.Page, mode answers.Mode) {
	s.page = page
	s.hasPage = true
	s.mode = mode
	s.version++
}

func (s *Screen) RenderEmpty(mode answers.Mode) {
	s.showNotice(answers.EmptyFeedNotice(), mode)
}

func (s *Screen) RenderSelectPrompt(mode answers.Mode) {
	s.showNotice(answers.SelectPromptNotice(), mode)
}

func (s *Screen) RenderError(message string, mode answers.Mode) {
	s.showNotice(answers.ErrorNotice(message), mode)
}

func (s *Screen) RenderCredentialRequired(mode answers.Mode) {
	s.showNotice(answers.CredentialRequiredNotice(), mode)
}

func (s *Screen) RenderNavigation(nav controller.Navigation) {
	s.nav = nav
}

func (s *Screen) Topics() []zhihu.Topic {
	return s.topics
}

func (s *Screen) Navigation() controller.Navigation {
	return s.nav
}

// Lines renders the current content at width.
func (s *Screen) Lines(width, imageMaxWidth int) []string {
	if s.hasPage {
		return answers.Lines(s.page, s.mode, answers.Options{Width: width, ImageMaxWidth: imageMaxWidth})
	}
	return s.notice.Lines(s.mode, width)
}

func (s *Screen) showNotice(n answers.Notice, mode answers.Mode) {
	s.notice = n
	s.hasPage = false
	s.page = answers.Page{}
	s.mode = mode
	s.version++
}
