package answers

import (
	"testing"

	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"<p>Hello world</p>",
		"<figure><noscript><img src='https://pic.example/a.jpg'></noscript><img data-actualsrc='https://pic.example/a.jpg'></figure>",
		"<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>",
		"<blockquote><p>Quote</p></blockquote>",
		"<ol><li>a<ul><li>b</li></ul></li></ol>",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
	}
	for _, s := range seeds {
		f.Add(s, "author")
	}

	f.Fuzz(func(t *testing.T, raw, author string) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		p := Page{
			Topic:   zhihu.Topic{ID: "1", Title: author},
			Replies: []zhihu.Reply{{AuthorName: author, ContentHTML: raw}},
		}
		for _, width := range []int{1, 20, 72} {
			_ = Lines(p, ModeRich, Options{Width: width, ImageMaxWidth: 600})
			_ = Lines(p, ModePlain, Options{Width: width, ImageMaxWidth: 600})
		}
	})
}
