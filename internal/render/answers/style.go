package answers

import "github.com/charmbracelet/lipgloss"

var (
	cpMauve    = lipgloss.Color("#cba6f7")
	cpPeach    = lipgloss.Color("#fab387")
	cpRed      = lipgloss.Color("#f38ba8")
	cpTeal     = lipgloss.Color("#94e2d5")
	cpBlue     = lipgloss.Color("#89b4fa")
	cpLavender = lipgloss.Color("#b4befe")
	cpSubtext0 = lipgloss.Color("#a6adc8")
	cpSubtext1 = lipgloss.Color("#bac2de")
	cpOverlay0 = lipgloss.Color("#6c7086")
	cpOverlay1 = lipgloss.Color("#7f849c")
	cpSurface2 = lipgloss.Color("#585b70")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(cpLavender)
	headingBars  = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(cpBlue),
		lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		lipgloss.NewStyle().Bold(true).Foreground(cpPeach),
	}
	ruleStyle       = lipgloss.NewStyle().Foreground(cpSurface2)
	quotePrefix     = lipgloss.NewStyle().Foreground(cpOverlay1).Render("│ ")
	quoteText       = lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0)
	captionStyle    = lipgloss.NewStyle().Italic(true).Foreground(cpOverlay0).Faint(true)
	codeStyle       = lipgloss.NewStyle().Foreground(cpPeach)
	strongStyle     = lipgloss.NewStyle().Bold(true)
	tableBorder     = lipgloss.NewStyle().Foreground(cpSurface2)
	tableHeader     = lipgloss.NewStyle().Bold(true).Foreground(cpLavender)
	imageLabelStyle = lipgloss.NewStyle().Foreground(cpMauve).Faint(true).Italic(true)
	imageTextStyle  = lipgloss.NewStyle().Foreground(cpSubtext1).Italic(true)
	alertStyle      = lipgloss.NewStyle().Foreground(cpRed)
)
