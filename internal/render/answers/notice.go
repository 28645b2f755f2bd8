package answers

import (
	"html"
	"strings"
)

// Notice is a placeholder shown in the content pane instead of a page. Markup
// is used in rich mode and Text in plain mode.
type Notice struct {
	Markup string
	Text   string
	Alert  bool
}

func (n Notice) Lines(mode Mode, width int) []string {
	if mode == ModePlain {
		lines := trimBlankLines(wrapText(n.Text, width))
		if n.Alert {
			return styleNonBlankLines(lines, alertStyle)
		}
		return lines
	}
	lines := renderFragmentLines(n.Markup, width)
	if n.Alert {
		return styleNonBlankLines(lines, alertStyle)
	}
	return lines
}

func LoadingNotice(title string) Notice {
	const loading = "Loading answers..."
	if strings.TrimSpace(title) == "" {
		return Notice{Markup: "<h2>" + loading + "</h2>", Text: loading}
	}
	return Notice{
		Markup: "<h2>" + loading + "</h2><h2>" + html.EscapeString(title) + "</h2>",
		Text:   loading + "\n\n" + title,
	}
}

func FeedLoadingNotice() Notice {
	return plainNotice("Loading...")
}

func EmptyFeedNotice() Notice {
	return plainNotice("No recommendations loaded; check that the cookie is valid.")
}

func SelectPromptNotice() Notice {
	return plainNotice("Loaded. Pick a question on the left.")
}

func CredentialRequiredNotice() Notice {
	n := plainNotice("Set your zhihu cookie first (press c) to start reading.")
	n.Alert = true
	return n
}

// ErrorNotice is the generic failure placeholder for message.
func ErrorNotice(message string) Notice {
	const hint = "Check that the cookie is valid or the network is up."
	return Notice{
		Markup: "<p><b>Load failed:</b><br/>" + html.EscapeString(message) + "<br/>" + hint + "</p>",
		Text:   "Load failed:\n" + message + "\n" + hint,
		Alert:  true,
	}
}

func plainNotice(text string) Notice {
	return Notice{Markup: "<p>" + html.EscapeString(text) + "</p>", Text: text}
}
