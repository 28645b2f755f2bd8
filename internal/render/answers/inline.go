package answers

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

func (r terminalRenderer) renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.renderInlineNode(child))
	}
	return strings.Join(parts, " ")
}

func (r terminalRenderer) renderInlineNode(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		tag := strings.ToLower(node.Data)
		switch tag {
		case "script", "style", "noscript", "template":
			return ""
		case "img":
			// Formulas carry their TeX source in alt.
			if hasAttr(node, "eeimg") {
				return nodeAttr(node, "alt")
			}
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(r.renderInlineChildren(node))
			href := linkTarget(node)
			switch {
			case href == "":
				return text
			case text == "":
				return href
			case strings.EqualFold(text, href):
				return href
			default:
				return text + " (" + href + ")"
			}
		case "b", "strong":
			text := normalizeInlineText(r.renderInlineChildren(node))
			if text == "" {
				return ""
			}
			return strongStyle.Render(text)
		case "code", "kbd", "samp":
			text := normalizeInlineText(r.renderInlineChildren(node))
			if text == "" {
				return ""
			}
			return codeStyle.Render("`" + text + "`")
		default:
			return r.renderInlineChildren(node)
		}
	default:
		return ""
	}
}

// linkTarget unwraps zhihu's outbound redirect links.
func linkTarget(node *nethtml.Node) string {
	href := strings.TrimSpace(nodeAttr(node, "href"))
	const redirect = "https://link.zhihu.com/?target="
	if strings.HasPrefix(href, redirect) {
		if target, err := unescapeQuery(strings.TrimPrefix(href, redirect)); err == nil && target != "" {
			return target
		}
	}
	return href
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	normalized := strings.Join(out, "\n")
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" :", ":",
		" !", "!",
		" ?", "?",
		" )", ")",
		"( ", "(",
		" ，", "，",
		" 。", "。",
	)
	return replacer.Replace(normalized)
}
