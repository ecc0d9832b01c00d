package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func plainPalette() palette {
	s := lipgloss.NewStyle()
	return palette{correct: s, incorrect: s, pending: s, currentLine: s, gutter: s, footer: s, title: s, status: s, card: s}
}

func TestBuildStyledRunesCursor(t *testing.T) {
	p := darkPalette
	runes := buildStyledRunes(p, []rune("ab"), []rune("a"), 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != p.correct.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != p.currentLine.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	p := darkPalette
	runes := buildStyledRunes(p, []rune("ab"), []rune("ax"), -1)
	if runes[1].s != p.incorrect.Render("b") {
		t.Fatalf("expected incorrect style showing the target rune")
	}
}

func TestBuildStyledRunesMarksWhitespaceErrors(t *testing.T) {
	p := darkPalette
	runes := buildStyledRunes(p, []rune("a b\nc"), []rune("axbx"), 4)
	if runes[1].s != p.incorrect.Render(string(spaceMarker)) {
		t.Fatalf("expected space marker for mistyped space, got %q", runes[1].s)
	}
	if runes[3].s != p.incorrect.Render(string(newlineMarker)) {
		t.Fatalf("expected newline marker for mistyped newline, got %q", runes[3].s)
	}
	if !runes[3].newline {
		t.Fatalf("expected newline flag to survive the marker")
	}
}

func TestBuildStyledRunesNewlineAtCursor(t *testing.T) {
	p := darkPalette
	runes := buildStyledRunes(p, []rune("a\nb"), []rune("a"), 1)
	if runes[1].s != p.currentLine.Underline(true).Render(string(newlineMarker)) {
		t.Fatalf("expected newline marker under the cursor")
	}
	if runes[1].width != 1 {
		t.Fatalf("expected marker width 1, got %d", runes[1].width)
	}
}

func TestBuildStyledRunesCurrentLineHighlighting(t *testing.T) {
	p := darkPalette
	runes := buildStyledRunes(p, []rune("ab\ncd"), []rune("a"), 1)
	if runes[3].s != p.pending.Render("c") {
		t.Fatalf("expected pending style outside the current line")
	}
	if !runes[2].newline || runes[2].s != "" {
		t.Fatalf("expected bare newline cell away from the cursor")
	}
}

func TestLineBounds(t *testing.T) {
	target := []rune("ab\ncde\nf")
	start, end := lineBounds(target, 4)
	if start != 3 || end != 6 {
		t.Fatalf("expected 3..6, got %d..%d", start, end)
	}
	start, end = lineBounds(target, -1)
	if start != -1 || end != -1 {
		t.Fatalf("expected no bounds for missing cursor")
	}
}

func TestRenderCodeGutter(t *testing.T) {
	p := plainPalette()
	target := []rune("one\ntwo")
	runes := buildStyledRunes(p, target, target, -1)
	out := renderCode(p, runes, true, 0)
	want := "1 one\n2 two"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRenderCodeWrapsLongLines(t *testing.T) {
	p := plainPalette()
	target := []rune("abcdef\ng")
	runes := buildStyledRunes(p, target, target, -1)
	out := renderCode(p, runes, true, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d: %q", len(lines), out)
	}
	if lines[0] != "1 abc" || lines[1] != "  def" || lines[2] != "2 g" {
		t.Fatalf("unexpected rows: %q", lines)
	}
}

func TestRenderCodeWithoutGutter(t *testing.T) {
	p := plainPalette()
	target := []rune("x\ny")
	out := renderCode(p, buildStyledRunes(p, target, target, -1), false, 0)
	if out != "x\ny" {
		t.Fatalf("expected plain lines, got %q", out)
	}
}
