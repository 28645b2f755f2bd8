package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/zhihu-cli/internal/controller"
	tuitheme "github.com/glabrego/zhihu-cli/internal/tui/theme"
)

const appTitle = "Zhihu"

// Header is the top bar: app title, render mode pill and, when a question is
// open, its page label and title.
func Header(nav controller.Navigation, topicTitle string, width int, th tuitheme.Theme) string {
	left := th.Title.Render(appTitle) + " " + th.ModePill.Render(nav.Mode.String())
	if nav.PageLabel == "" {
		return left
	}
	left += " " + th.MetaValue.Render(nav.PageLabel)
	title := strings.TrimSpace(topicTitle)
	if title == "" {
		return left
	}
	available := width - visibleLen(left) - 3
	if available < 1 {
		return left
	}
	return left + th.MetaLabel.Render(" | ") + th.Section.Render(truncateCells(title, available))
}

func Footer(nav controller.Navigation, topicCount int, th tuitheme.Theme) string {
	page := nav.PageLabel
	if page == "" {
		page = "-"
	}
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(nav.Mode.String()),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(page),
		th.MetaValue.Render(fmt.Sprintf("%d questions", topicCount)),
	}
	if nav.Next {
		parts = append(parts, th.MetaValue.Render("more"))
	}
	return strings.Join(parts, " • ")
}

// Message is the status line under the panes. A status message wins over
// the warning.
func Message(nav controller.Navigation, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if nav.Loading || nav.FeedLoading {
		state = "loading"
	}
	if warning != "" {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
