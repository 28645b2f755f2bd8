package answers

import (
	"fmt"
	"html"
	"strings"

	"github.com/glabrego/zhihu-cli/internal/content"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

const (
	noMoreAnswers = "No more answers."
	stylesheet    = "img { max-width: 100%; height: auto; display: block; margin: 0 auto; }"
)

// Page is one fetched page of answers for a question.
type Page struct {
	Topic   zhihu.Topic
	Offset  int
	Replies []zhihu.Reply
}

// Number is the 1-based page number shown in the page label.
func (p Page) Number() int {
	return p.Offset/zhihu.PageSize + 1
}

func (p Page) Label() string {
	return fmt.Sprintf("Page %d", p.Number())
}

func replyHeading(number int, author string) string {
	return fmt.Sprintf("Answer %d - Author: %s", number, author)
}

// Body returns the page as body-inner markup with every answer sanitized for
// a display imageMaxWidth pixels wide.
func Body(p Page, imageMaxWidth int) string {
	var b strings.Builder
	b.WriteString("<h2>Question: ")
	b.WriteString(html.EscapeString(p.Topic.Title))
	b.WriteString("</h2><hr/>")
	if len(p.Replies) == 0 {
		b.WriteString("<p>" + noMoreAnswers + "</p>")
		return b.String()
	}
	for i, reply := range p.Replies {
		b.WriteString(`<div class="answer-container"><h3>`)
		b.WriteString(html.EscapeString(replyHeading(p.Offset+i+1, reply.AuthorName)))
		b.WriteString("</h3>")
		b.WriteString(content.SanitizeForEmbedding(reply.ContentHTML, imageMaxWidth))
		b.WriteString("</div>")
	}
	return b.String()
}

// HTMLDocument wraps Body in a standalone document.
func HTMLDocument(p Page, imageMaxWidth int) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(p.Topic.Title))
	b.WriteString("</title><style>")
	b.WriteString(stylesheet)
	b.WriteString("</style></head><body>")
	b.WriteString(Body(p, imageMaxWidth))
	b.WriteString("</body></html>\n")
	return b.String()
}

// PlainText returns the page with every answer converted to plain text.
func PlainText(p Page) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(p.Topic.Title)
	b.WriteString("\n\n")
	if len(p.Replies) == 0 {
		b.WriteString(noMoreAnswers)
		return b.String()
	}
	for i, reply := range p.Replies {
		fmt.Fprintf(&b, "=== Answer %d ===\n", p.Offset+i+1)
		b.WriteString("Author: ")
		b.WriteString(reply.AuthorName)
		b.WriteString("\n\n")
		b.WriteString(content.ToPlainText(reply.ContentHTML))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Options controls terminal rendering.
type Options struct {
	Width         int
	ImageMaxWidth int
}

// Lines renders p for the terminal in the given mode. It is a pure function
// of its inputs, so switching modes never needs a refetch.
func Lines(p Page, mode Mode, opts Options) []string {
	if mode == ModePlain {
		return trimBlankLines(wrapText(PlainText(p), opts.Width))
	}
	return renderFragmentLines(Body(p, opts.ImageMaxWidth), opts.Width)
}
