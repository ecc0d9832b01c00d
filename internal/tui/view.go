package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	newlineMarker = '↵'
	spaceMarker   = '·'
	// lipgloss renders a tab as this many spaces.
	tabWidth = 4
)

type styledRune struct {
	s       string
	width   int
	newline bool
}

// buildStyledRunes styles every target rune against the typed input. Typed
// runes are correct or incorrect; the rest are pending, with the line under
// the cursor highlighted. Newlines get a visible marker when they are under
// the cursor or were mistyped.
func buildStyledRunes(p palette, target, input []rune, cursorIndex int) []styledRune {
	lineStart, lineEnd := lineBounds(target, cursorIndex)
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		displayed := r
		style := p.pending
		typed := i < len(input)
		switch {
		case typed && input[i] == r:
			style = p.correct
		case typed:
			style = p.incorrect
			switch r {
			case ' ':
				displayed = spaceMarker
			case '\n':
				displayed = newlineMarker
			}
		case i >= lineStart && i <= lineEnd:
			style = p.currentLine
		}
		if i == cursorIndex {
			style = style.Underline(true)
			if r == '\n' {
				displayed = newlineMarker
			}
		}

		item := styledRune{newline: r == '\n'}
		if r == '\n' && displayed == r {
			out = append(out, item)
			continue
		}
		item.s = style.Render(string(displayed))
		item.width = runewidth.RuneWidth(displayed)
		if displayed == '\t' {
			item.width = tabWidth
		}
		out = append(out, item)
	}
	return out
}

// lineBounds returns the start of the line holding index and the index of
// its terminating newline, or len(target) on the last line.
func lineBounds(target []rune, index int) (int, int) {
	if index < 0 || index >= len(target) {
		return -1, -1
	}
	start := index
	for start > 0 && target[start-1] != '\n' {
		start--
	}
	end := index
	for end < len(target) && target[end] != '\n' {
		end++
	}
	return start, end
}

// splitLines groups styled runes into display lines at target newlines.
// The newline cell stays at the end of its line.
func splitLines(runes []styledRune) [][]styledRune {
	lines := [][]styledRune{{}}
	for _, item := range runes {
		last := len(lines) - 1
		lines[last] = append(lines[last], item)
		if item.newline {
			lines = append(lines, []styledRune{})
		}
	}
	return lines
}

// renderCode lays the styled runes out as code lines, with an optional
// line-number gutter. Lines wider than width continue on the next row
// under a blank gutter.
func renderCode(p palette, runes []styledRune, gutter bool, width int) string {
	lines := splitLines(runes)
	gutterWidth := 0
	if gutter {
		gutterWidth = len(fmt.Sprint(len(lines))) + 1
	}
	textWidth := width - gutterWidth
	var out []string
	for n, line := range lines {
		rows := wrapRow(line, textWidth)
		for i, row := range rows {
			prefix := ""
			if gutter {
				label := ""
				if i == 0 {
					label = fmt.Sprint(n + 1)
				}
				prefix = p.gutter.Render(runewidth.FillLeft(label, gutterWidth-1)) + " "
			}
			out = append(out, prefix+renderStyledRunes(row))
		}
	}
	return strings.Join(out, "\n")
}

func wrapRow(line []styledRune, width int) [][]styledRune {
	if width <= 0 {
		return [][]styledRune{line}
	}
	var rows [][]styledRune
	row := make([]styledRune, 0, len(line))
	rowWidth := 0
	for _, item := range line {
		if rowWidth+item.width > width && len(row) > 0 {
			rows = append(rows, row)
			row = make([]styledRune, 0, len(line))
			rowWidth = 0
		}
		row = append(row, item)
		rowWidth += item.width
	}
	return append(rows, row)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}
