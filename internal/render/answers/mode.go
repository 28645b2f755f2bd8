package answers

import "strings"

// Mode selects how a page of answers is shown.
type Mode int

const (
	ModeRich Mode = iota
	ModePlain
)

func (m Mode) String() string {
	if m == ModePlain {
		return "plain"
	}
	return "rich"
}

func (m Mode) Toggle() Mode {
	if m == ModePlain {
		return ModeRich
	}
	return ModePlain
}

// ParseMode maps a persisted value back to a Mode. Unknown values fall back
// to ModeRich.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "plain") {
		return ModePlain
	}
	return ModeRich
}
