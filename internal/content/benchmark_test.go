package content

import "testing"

const benchmarkAnswer = `<p>Intro with a <a href="https://example.com/link">reference</a>.</p>
<figure><img style="width:1200px" src="https://pic.example/1.jpg"></figure>
<ul><li>First point</li><li>Second point</li></ul>
<ol><li>Step one</li><li>Step two</li></ol>
<blockquote><p>Quoted claim</p></blockquote>
<p>Line one<br>Line two</p>`

func BenchmarkToPlainText(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ToPlainText(benchmarkAnswer)
	}
}

func BenchmarkSanitizeForEmbedding(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SanitizeForEmbedding(benchmarkAnswer, 600)
	}
}
