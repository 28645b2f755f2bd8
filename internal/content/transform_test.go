package content

import (
	"strings"
	"testing"
)

func TestToPlainText_ParagraphsOnSeparateLines(t *testing.T) {
	got := ToPlainText(`<p>A</p><p>B</p>`)
	if got != "A\nB" {
		t.Fatalf("expected paragraphs on separate lines, got %q", got)
	}
}

func TestToPlainText_ListItemsBulleted(t *testing.T) {
	got := ToPlainText(`<li>X</li><li>Y</li>`)
	if got != "• X\n• Y" {
		t.Fatalf("expected bulleted lines, got %q", got)
	}

	got = ToPlainText(`<ul><li>one</li><li>two</li></ul>`)
	if got != "• one\n• two" {
		t.Fatalf("expected bulleted lines inside ul, got %q", got)
	}
}

func TestToPlainText_LineBreaks(t *testing.T) {
	got := ToPlainText(`first<br>second<br/>third`)
	if got != "first\nsecond\nthird" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestToPlainText_NonBreakingSpacesAndTrim(t *testing.T) {
	got := ToPlainText("  <p>a&nbsp;b c</p>&nbsp;  ")
	if got != "a b c" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestToPlainText_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n"} {
		if got := ToPlainText(raw); got != "" {
			t.Fatalf("expected empty output for %q, got %q", raw, got)
		}
	}
}

func TestToPlainText_KeepsInlineTextAndSkipsScripts(t *testing.T) {
	got := ToPlainText(`<p>Use <b>go</b> <a href="https://go.dev">here</a></p><script>alert(1)</script><style>p{}</style>`)
	if got != "Use go here" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestToPlainText_ZhihuAnswerLayout(t *testing.T) {
	raw := `<p>Intro</p><ol><li>Step one</li><li>Step two</li></ol><p>Line one<br>Line two</p><figure><noscript><img src="https://pic.example/a.jpg"></noscript></figure>`
	got := ToPlainText(raw)
	want := "Intro\n• Step one\n• Step two\nLine one\nLine two"
	if got != want {
		t.Fatalf("unexpected text:\n got: %q\nwant: %q", got, want)
	}
}

func TestSanitizeForEmbedding_PinsImageWidth(t *testing.T) {
	got := SanitizeForEmbedding(`<img style="width:1200px" src="a.png">`, 600)
	if strings.Contains(got, "style") {
		t.Fatalf("expected inline width style removed, got %q", got)
	}
	if !strings.Contains(got, `width="600"`) {
		t.Fatalf("expected width attribute, got %q", got)
	}
	if !strings.Contains(got, `height="auto"`) {
		t.Fatalf("expected auto height attribute, got %q", got)
	}
	if !strings.Contains(got, `src="a.png"`) {
		t.Fatalf("expected src preserved, got %q", got)
	}
}

func TestSanitizeForEmbedding_KeepsUnrelatedStyles(t *testing.T) {
	got := SanitizeForEmbedding(`<img style="max-width:100%; border: 1px solid red;HEIGHT: 40px" width="1200" height="900" src="b.png">`, 480)
	if strings.Contains(strings.ToLower(got), "max-width") || strings.Contains(strings.ToLower(got), "height: 40px") {
		t.Fatalf("expected sizing declarations removed, got %q", got)
	}
	if !strings.Contains(got, `style="border: 1px solid red;"`) {
		t.Fatalf("expected border style kept, got %q", got)
	}
	if !strings.Contains(got, `width="480"`) || strings.Contains(got, `width="1200"`) {
		t.Fatalf("expected width overridden, got %q", got)
	}
	if !strings.Contains(got, `height="auto"`) || strings.Contains(got, `height="900"`) {
		t.Fatalf("expected height overridden, got %q", got)
	}
}

func TestSanitizeForEmbedding_ReturnsFragmentOnly(t *testing.T) {
	got := SanitizeForEmbedding(`<p>Hello <em>there</em></p><img src="c.png">`, 600)
	for _, unwanted := range []string{"<html", "<head", "<body"} {
		if strings.Contains(got, unwanted) {
			t.Fatalf("expected body inner markup only, got %q", got)
		}
	}
	if !strings.HasPrefix(got, "<p>Hello <em>there</em></p>") {
		t.Fatalf("expected paragraph preserved, got %q", got)
	}
}

func TestSanitizeForEmbedding_NoscriptImagesAlsoBounded(t *testing.T) {
	got := SanitizeForEmbedding(`<figure><noscript><img src="https://pic.example/full.jpg" data-rawwidth="2000"></noscript></figure>`, 600)
	if !strings.Contains(got, `width="600"`) {
		t.Fatalf("expected noscript image bounded, got %q", got)
	}
}

func TestSanitizeForEmbedding_EmptyInput(t *testing.T) {
	if got := SanitizeForEmbedding("", 600); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestStripDeclarations(t *testing.T) {
	got := stripDeclarations("width:10px;color:red; max-width : 5em ;", boundedImageStyles)
	if got != "color:red;" {
		t.Fatalf("unexpected declarations: %q", got)
	}
	if got := stripDeclarations("width:1px;height:2px", boundedImageStyles); got != "" {
		t.Fatalf("expected nothing left, got %q", got)
	}
}
