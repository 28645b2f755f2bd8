package zhihu

// PageSize is the number of answers requested per page.
const PageSize = 10

const questionURLPrefix = "https://www.zhihu.com/question/"

// Topic is a recommended question.
type Topic struct {
	ID    string
	Title string
}

// URL is the question's public web page.
func (t Topic) URL() string {
	if t.ID == "" {
		return ""
	}
	return questionURLPrefix + t.ID
}

// Reply is one answer with its raw, untrusted HTML body.
type Reply struct {
	AuthorName  string
	ContentHTML string
}
