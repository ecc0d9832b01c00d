package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the styles of the practice screen.
type palette struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentLine lipgloss.Style
	gutter      lipgloss.Style
	footer      lipgloss.Style
	title       lipgloss.Style
	status      lipgloss.Style
	card        lipgloss.Style
}

func newPalette(fg, bad, dim, accent, muted string) palette {
	return palette{
		correct:     lipgloss.NewStyle().Foreground(lipgloss.Color(fg)),
		incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color(bad)),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color(dim)),
		currentLine: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		gutter:      lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		title:       lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		status:      lipgloss.NewStyle().Foreground(lipgloss.Color(bad)),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accent)).
			Padding(1, 3),
	}
}

var (
	darkPalette  = newPalette("#F0F0F0", "#FF4D4F", "#8C8C8C", "#C89A3A", "#6E6E6E")
	lightPalette = newPalette("#1F1F1F", "#CF1322", "#8C8C8C", "#A86A00", "#595959")
)

// paletteFor resolves a theme preference. "system" follows the terminal
// background.
func paletteFor(theme string) palette {
	switch theme {
	case "light":
		return lightPalette
	case "dark":
		return darkPalette
	default:
		if lipgloss.HasDarkBackground() {
			return darkPalette
		}
		return lightPalette
	}
}
