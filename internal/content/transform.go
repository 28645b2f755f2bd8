package content

import (
	"html"
	"strconv"
	"strings"

	nethtml "golang.org/x/net/html"
)

// AutoHeight is the height attribute value that keeps an image's aspect ratio
// once its width is pinned.
const AutoHeight = "auto"

const (
	lineBreak    = "\n"
	bulletMarker = "• "
)

var boundedImageStyles = map[string]struct{}{
	"width":     {},
	"height":    {},
	"max-width": {},
}

// SanitizeForEmbedding pins every image to maxWidth pixels wide with automatic
// height, dropping inline width/height/max-width styles the author set. It
// returns the fragment's markup, not a full document.
func SanitizeForEmbedding(raw string, maxWidth int) string {
	body := parseFragment(raw)
	if body == nil {
		return ""
	}
	width := strconv.Itoa(maxWidth)
	for _, img := range findElements(body, "img") {
		if style, ok := attr(img, "style"); ok {
			if cleaned := stripDeclarations(style, boundedImageStyles); cleaned == "" {
				removeAttr(img, "style")
			} else {
				setAttr(img, "style", cleaned)
			}
		}
		setAttr(img, "width", width)
		setAttr(img, "height", AutoHeight)
	}

	var b strings.Builder
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if err := nethtml.Render(&b, child); err != nil {
			return html.EscapeString(raw)
		}
	}
	return b.String()
}

// ToPlainText flattens the fragment to text while keeping its block layout:
// a newline after each <br> and <p>, and each <li> on its own bulleted line.
// Non-breaking spaces become plain spaces and the result is trimmed.
func ToPlainText(raw string) string {
	body := parseFragment(raw)
	if body == nil {
		return ""
	}

	for _, br := range findElements(body, "br") {
		insertAfter(br, textNode(lineBreak))
	}
	for _, p := range findElements(body, "p") {
		insertAfter(p, textNode(lineBreak))
	}
	for _, li := range findElements(body, "li") {
		li.InsertBefore(textNode(bulletMarker), li.FirstChild)
		insertAfter(li, textNode(lineBreak))
	}

	var b strings.Builder
	wholeText(&b, body)
	return strings.TrimSpace(strings.ReplaceAll(b.String(), "\u00a0", " "))
}

// parseFragment returns the <body> holding raw, or nil for blank input.
// Scripting is disabled so <noscript> fallbacks parse as markup.
func parseFragment(raw string) *nethtml.Node {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	doc, err := nethtml.ParseWithOptions(
		strings.NewReader("<html><body>"+raw+"</body></html>"),
		nethtml.ParseOptionEnableScripting(false),
	)
	if err != nil {
		return nil
	}
	return findBody(doc)
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

// findElements collects matches in document order before callers mutate the tree.
func findElements(root *nethtml.Node, tag string) []*nethtml.Node {
	var out []*nethtml.Node
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == nethtml.ElementNode && strings.EqualFold(child.Data, tag) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

func wholeText(b *strings.Builder, node *nethtml.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			b.WriteString(child.Data)
		case nethtml.ElementNode:
			switch strings.ToLower(child.Data) {
			case "script", "style", "template":
				continue
			}
			wholeText(b, child)
		}
	}
}

func textNode(data string) *nethtml.Node {
	return &nethtml.Node{Type: nethtml.TextNode, Data: data}
}

func insertAfter(node, sibling *nethtml.Node) {
	if node.Parent == nil {
		return
	}
	node.Parent.InsertBefore(sibling, node.NextSibling)
}

func stripDeclarations(style string, drop map[string]struct{}) string {
	kept := make([]string, 0, 4)
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if _, ok := drop[strings.ToLower(strings.TrimSpace(name))]; ok {
			continue
		}
		kept = append(kept, decl)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "; ") + ";"
}

func attr(node *nethtml.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(node *nethtml.Node, key, val string) {
	for i := range node.Attr {
		if strings.EqualFold(node.Attr[i].Key, key) {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, nethtml.Attribute{Key: key, Val: val})
}

func removeAttr(node *nethtml.Node, key string) {
	out := node.Attr[:0]
	for _, a := range node.Attr {
		if !strings.EqualFold(a.Key, key) {
			out = append(out, a)
		}
	}
	node.Attr = out
}
