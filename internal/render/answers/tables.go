package answers

import (
	"net/url"
	"strings"

	nethtml "golang.org/x/net/html"
)

func renderTableLines(tableNode *nethtml.Node, r terminalRenderer) []string {
	rows := tableRows(tableNode, r)
	if len(rows) == 0 {
		return nil
	}
	header := hasHeaderCell(tableNode)
	bar := tableBorder.Render("|")
	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		cells := row
		if i == 0 && header {
			cells = make([]string, len(row))
			for idx := range row {
				cells[idx] = tableHeader.Render(row[idx])
			}
		}
		line := bar + " " + strings.Join(cells, " "+bar+" ") + " " + bar
		lines = append(lines, wrapText(line, r.width)...)
		if i == 0 && header {
			sep := make([]string, len(row))
			for j := range sep {
				sep[j] = "---"
			}
			lines = append(lines, tableBorder.Render("| "+strings.Join(sep, " | ")+" |"))
		}
	}
	return lines
}

func tableRows(tableNode *nethtml.Node, r terminalRenderer) [][]string {
	rows := make([][]string, 0, 8)
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "tr") {
			row := make([]string, 0, 4)
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != nethtml.ElementNode {
					continue
				}
				tag := strings.ToLower(c.Data)
				if tag != "th" && tag != "td" {
					continue
				}
				row = append(row, strings.ReplaceAll(normalizeInlineText(r.renderInlineChildren(c)), "\n", " "))
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tableNode)
	return rows
}

func hasHeaderCell(node *nethtml.Node) bool {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "th") {
		return true
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasHeaderCell(child) {
			return true
		}
	}
	return false
}

// renderImageLabel shows an image as a one-line label. Width comes from the
// attribute set by content.SanitizeForEmbedding.
func renderImageLabel(imgNode *nethtml.Node, width int) []string {
	label := "◌◌◌ Image"
	if w := nodeAttr(imgNode, "width"); w != "" {
		label += " " + w + "px"
	}
	line := imageLabelStyle.Render(label)
	text := normalizeInlineText(nodeAttr(imgNode, "alt"))
	if text == "" {
		text = normalizeInlineText(nodeAttr(imgNode, "title"))
	}
	if text == "" {
		text = imageSource(imgNode)
	}
	if text != "" {
		line += " " + imageTextStyle.Render(text)
	}
	return wrapText(line, max(1, width))
}

// imageSource prefers zhihu's lazy-load attributes over the placeholder src.
func imageSource(imgNode *nethtml.Node) string {
	for _, key := range []string{"data-original", "data-actualsrc", "src"} {
		src := nodeAttr(imgNode, key)
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			return src
		}
	}
	return ""
}

func unescapeQuery(s string) (string, error) {
	return url.QueryUnescape(s)
}
