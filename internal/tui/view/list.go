package view

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/glabrego/zhihu-cli/internal/tui/state"
	tuitheme "github.com/glabrego/zhihu-cli/internal/tui/theme"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

type TopicLineParams struct {
	Topic    zhihu.Topic
	Position int
	Active   bool
	Selected bool
	Width    int
}

func RenderTopicLine(p TopicLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if p.Selected {
		selectedMarker = "*"
	}
	prefix := fmt.Sprintf("%s%s%2d. ", cursorMarker, selectedMarker, p.Position+1)

	available := p.Width - visibleLen(prefix)
	if available < 1 {
		available = 1
	}
	label := strings.TrimSpace(p.Topic.Title)
	if label == "" {
		label = "(untitled)"
	}
	label = truncateCells(label, available)
	return th.RenderActiveLine(p.Active, prefix+th.StyleTopicTitle(p.Selected, label))
}

// RenderTopicList renders the window of topics around cursor that fits in
// height rows.
func RenderTopicList(topics []zhihu.Topic, cursor int, selectedID string, width, height int, th tuitheme.Theme) []string {
	if len(topics) == 0 {
		return []string{th.Disabled.Render("No questions")}
	}
	start, end := state.CenteredWindow(len(topics), cursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, RenderTopicLine(TopicLineParams{
			Topic:    topics[i],
			Position: i,
			Active:   i == cursor,
			Selected: selectedID != "" && topics[i].ID == selectedID,
			Width:    width,
		}, th))
	}
	return lines
}

// truncateCells cuts s to at most width terminal cells, counting CJK runes
// as two.
func truncateCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if visibleLen(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	return truncate.StringWithTail(s, uint(width), "...")
}

func visibleLen(s string) int {
	return ansi.PrintableRuneWidth(s)
}
