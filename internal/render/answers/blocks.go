package answers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

func (r terminalRenderer) renderNodes(nodes []*nethtml.Node, listDepth int) []string {
	lines := make([]string, 0, len(nodes)*2)
	inlineParts := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flushInline := func() {
		text := normalizeInlineText(strings.Join(inlineParts, " "))
		inlineParts = inlineParts[:0]
		if text == "" {
			return
		}
		appendBlock(wrapText(text, r.width))
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inlineParts = append(inlineParts, node.Data)
		case nethtml.ElementNode:
			if isBlockNode(node) {
				flushInline()
				appendBlock(r.renderBlock(node, listDepth))
				continue
			}
			inlineParts = append(inlineParts, r.renderInlineNode(node))
		}
	}
	flushInline()
	return trimBlankLines(lines)
}

func (r terminalRenderer) renderBlock(node *nethtml.Node, listDepth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript", "template":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		prefix := headingPrefix(level)
		text := normalizeInlineText(r.renderInlineChildren(node))
		return styleNonBlankLines(
			wrapPrefixedText(text, r.width, prefix, strings.Repeat(" ", visibleLen(prefix))),
			headingStyle,
		)
	case "p", "div", "section", "article", "header", "footer":
		if hasBlockChild(node) {
			return r.renderNodes(elementChildren(node), listDepth)
		}
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return wrapText(text, r.width)
	case "blockquote":
		inner := r.renderNodes(elementChildren(node), listDepth)
		if len(inner) == 0 {
			return nil
		}
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, quotePrefix+quoteText.Render(line))
		}
		return out
	case "ul":
		return r.renderList(node, false, listDepth+1)
	case "ol":
		return r.renderList(node, true, listDepth+1)
	case "li":
		return r.renderListItem(node, listDepth, "- ")
	case "table":
		return renderTableLines(node, r)
	case "figcaption", "caption":
		text := normalizeInlineText(r.renderInlineChildren(node))
		return styleNonBlankLines(
			wrapPrefixedText(text, r.width, "— ", "  "),
			captionStyle,
		)
	case "figure":
		return r.renderNodes(elementChildren(node), listDepth)
	case "img":
		return renderImageLabel(node, r.width)
	case "pre":
		text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
		rawLines := strings.Split(text, "\n")
		out := make([]string, 0, len(rawLines))
		for _, line := range rawLines {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, "    "+codeStyle.Render(line))
		}
		return trimBlankLines(out)
	case "hr":
		return []string{ruleStyle.Render(strings.Repeat("─", min(max(r.width, 3), 24)))}
	default:
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text != "" {
			return wrapText(text, r.width)
		}
		return r.renderNodes(elementChildren(node), listDepth)
	}
}

func (r terminalRenderer) renderList(node *nethtml.Node, ordered bool, listDepth int) []string {
	lines := make([]string, 0, 16)
	itemIndex := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || strings.ToLower(child.Data) != "li" {
			continue
		}
		itemIndex++
		marker := unorderedListMarker(listDepth)
		if ordered {
			marker = fmt.Sprintf("%d. ", itemIndex)
		}
		lines = append(lines, r.renderListItem(child, listDepth, marker)...)
	}
	return trimBlankLines(lines)
}

func (r terminalRenderer) renderListItem(node *nethtml.Node, listDepth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, listDepth-1))
	firstPrefix := indent + marker
	restPrefix := indent + strings.Repeat(" ", visibleLen(marker))
	lines := make([]string, 0, 8)

	textParts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if isNestedList(child) {
			continue
		}
		textParts = append(textParts, r.renderInlineNode(child))
	}
	text := normalizeInlineText(strings.Join(textParts, " "))
	if text != "" {
		lines = append(lines, wrapPrefixedText(text, r.width, firstPrefix, restPrefix)...)
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if !isNestedList(child) {
			continue
		}
		lines = append(lines, r.renderList(child, strings.EqualFold(child.Data, "ol"), listDepth+1)...)
	}
	return lines
}

func isNestedList(node *nethtml.Node) bool {
	if node.Type != nethtml.ElementNode {
		return false
	}
	tag := strings.ToLower(node.Data)
	return tag == "ul" || tag == "ol"
}

func wrapPrefixedText(text string, width int, firstPrefix, restPrefix string) []string {
	text = normalizeInlineText(text)
	if text == "" {
		return nil
	}
	if width < 1 {
		return []string{firstPrefix + text}
	}
	firstWidth := max(1, width-visibleLen(firstPrefix))
	restWidth := max(1, width-visibleLen(restPrefix))
	out := make([]string, 0, 4)
	firstLine := true
	for _, p := range strings.Split(text, "\n") {
		lineWidth := restWidth
		if firstLine {
			lineWidth = firstWidth
		}
		for i, line := range wrapText(p, lineWidth) {
			if firstLine && i == 0 {
				out = append(out, firstPrefix+line)
				continue
			}
			out = append(out, restPrefix+line)
		}
		firstLine = false
	}
	return out
}

func headingPrefix(level int) string {
	level = min(max(level, 1), len(headingBars))
	return headingBars[level-1].Render("▌") + " "
}

func unorderedListMarker(listDepth int) string {
	switch listDepth {
	case 1:
		return "• "
	case 2:
		return "◦ "
	default:
		return "▪ "
	}
}

func styleNonBlankLines(lines []string, style lipgloss.Style) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = style.Render(line)
	}
	return out
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "header", "footer",
		"blockquote", "ul", "ol", "li", "table", "img",
		"pre", "figure", "figcaption", "caption", "hr",
		"script", "style", "noscript", "template":
		return true
	default:
		return false
	}
}

// isBlockNode treats zhihu formula images (img[eeimg]) as inline text.
func isBlockNode(node *nethtml.Node) bool {
	if strings.EqualFold(node.Data, "img") && hasAttr(node, "eeimg") {
		return false
	}
	return isBlockElement(node.Data)
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockNode(child) {
			return true
		}
	}
	return false
}
