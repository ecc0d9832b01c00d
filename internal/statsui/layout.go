package statsui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// fitLines cuts or extends s to exactly height lines, each padded to width.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[:min(len(lines), height)]
	for len(lines) < height {
		lines = append(lines, "")
	}
	return padLines(strings.Join(lines, "\n"), width)
}

func padLines(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}

// truncateLine shortens plain text to width display cells.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// stepCurveWindow moves n to the neighbouring multiple of five in the
// direction of dir, never below 1.
func stepCurveWindow(n, dir int) int {
	if dir > 0 {
		return (n/5 + 1) * 5
	}
	return max((n-1)/5*5, 1)
}
