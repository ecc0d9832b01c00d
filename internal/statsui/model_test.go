package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/codetype/internal/model"
)

type fakeSource struct {
	records []model.ProgressRecord
	err     error
	cfgs    []model.StatsConfig
}

func (f *fakeSource) ListResults(_ context.Context, cfg model.StatsConfig) ([]model.ProgressRecord, error) {
	f.cfgs = append(f.cfgs, cfg)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testRecords() []model.ProgressRecord {
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	rec := func(lang string, offset time.Duration, wpm int, brackets model.Counter) model.ProgressRecord {
		return model.ProgressRecord{
			User:       "tester",
			SnippetID:  lang + "-1",
			Language:   lang,
			Difficulty: "easy",
			StartedAt:  start.Add(offset),
			EndedAt:    start.Add(offset + time.Minute),
			Result: model.Result{
				WPM: wpm, Accuracy: 95, Errors: 2, Time: 60,
				CharactersTyped: 200, CorrectCharacters: 190,
				Code: &model.CodeMetrics{SpecialCharCount: 10, SyntaxErrorCount: brackets.Incorrect},
			},
			Special: model.SpecialCharStats{Brackets: brackets},
		}
	}
	return []model.ProgressRecord{
		rec("go", 0, 40, model.Counter{Correct: 4, Incorrect: 1}),
		rec("python", time.Hour, 45, model.Counter{Correct: 5}),
		rec("go", 2*time.Hour, 50, model.Counter{Correct: 3, Incorrect: 2}),
	}
}

func newTestModel(src *fakeSource) *Model {
	m := NewModel(src, model.StatsConfig{User: "tester", CurveWindow: 2}, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestNewModelLoadsTables(t *testing.T) {
	m := newTestModel(&fakeSource{records: testRecords()})

	if got := len(m.tables[tabLanguages].Rows()); got != 2 {
		t.Fatalf("expected 2 language rows, got %d", got)
	}
	if got := len(m.tables[tabClasses].Rows()); got != 4 {
		t.Fatalf("expected 4 class rows, got %d", got)
	}
	recent := m.tables[tabRecent].Rows()
	if len(recent) != 3 || recent[0][3] != "50" {
		t.Fatalf("expected newest result first, got %v", recent)
	}
}

func TestViewRendersOverview(t *testing.T) {
	m := newTestModel(&fakeSource{records: testRecords()})
	view := m.View()
	for _, want := range []string{"Overview", "Languages", "Code Errors", "Recent", "Sessions", "Best WPM", "user=tester"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if got := len(strings.Split(view, "\n")); got != 40 {
		t.Fatalf("expected 40 lines, got %d", got)
	}
}

func TestTabCaptions(t *testing.T) {
	m := newTestModel(&fakeSource{records: testRecords()})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "2 language(s)") {
		t.Fatalf("expected languages caption")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Last 2 result(s)  weak: brackets") {
		t.Fatalf("expected classes caption, got:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Latest 3 of 3 result(s)") {
		t.Fatalf("expected recent caption")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap around, got %d", m.activeTab)
	}
}

func TestEmptyResults(t *testing.T) {
	m := newTestModel(&fakeSource{})
	if !strings.Contains(m.View(), "No results found.") {
		t.Fatalf("expected empty overview message")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.View(), "No results found.") {
		t.Fatalf("expected empty table message")
	}
}

func TestLoadErrorShownInFooter(t *testing.T) {
	m := newTestModel(&fakeSource{err: errors.New("database is locked")})
	view := m.View()
	if !strings.Contains(view, "database is locked") || !strings.Contains(view, "Failed to load stats.") {
		t.Fatalf("expected load error in view:\n%s", view)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApplyFilter(t *testing.T) {
	src := &fakeSource{records: testRecords()}
	m := newTestModel(src)
	m.Update(keyRunes("/"))
	if !m.filter.active {
		t.Fatalf("expected filter form to open")
	}
	m.filter.inputs[fieldLang].SetValue("py")
	m.filter.inputs[fieldSince].SetValue("2026-01-15")
	m.filter.inputs[fieldLast].SetValue("5")
	m.filter.inputs[fieldWindow].SetValue("3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.filter.active {
		t.Fatalf("expected filter form to close")
	}
	cfg := src.cfgs[len(src.cfgs)-1]
	if cfg.User != "tester" || cfg.Lang != "python" || cfg.Last != 5 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}
}

func TestFilterKeepsWindowWhenEmpty(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.Update(keyRunes("/"))
	m.filter.inputs[fieldWindow].SetValue("")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.cfg.CurveWindow != 2 {
		t.Fatalf("expected window 2 to be kept, got %d", m.cfg.CurveWindow)
	}
}

func TestFilterQuitKeyIsText(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.Update(keyRunes("/"))
	m.Update(keyRunes("q"))
	if !m.filter.active {
		t.Fatalf("expected the form to stay open")
	}
	if got := m.filter.inputs[fieldLang].Value(); got != "q" {
		t.Fatalf("expected q in lang field, got %q", got)
	}
}

func TestApplyFilterRejectsBadInput(t *testing.T) {
	m := newTestModel(&fakeSource{})
	cases := []struct {
		field int
		value string
		want  string
	}{
		{fieldSince, "yesterday", "invalid since date"},
		{fieldLast, "-1", "invalid last value"},
		{fieldWindow, "0", "invalid curve window"},
	}
	for _, tc := range cases {
		m.Update(keyRunes("/"))
		m.filter.inputs[tc.field].SetValue(tc.value)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !m.filter.active || !strings.Contains(m.filter.err, tc.want) {
			t.Fatalf("expected %q for %q, got %q", tc.want, tc.value, m.filter.err)
		}
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	}
}

func TestCurveWindowKeys(t *testing.T) {
	src := &fakeSource{records: testRecords()}
	m := newTestModel(src)
	m.Update(keyRunes("="))
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
	m.Update(keyRunes("-"))
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
	if src.cfgs[len(src.cfgs)-1].CurveWindow != 1 {
		t.Fatalf("expected reload with the new window")
	}
}

func TestStepCurveWindow(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{20, 25, 15},
	}
	for _, tc := range cases {
		if got := stepCurveWindow(tc.in, 1); got != tc.next {
			t.Fatalf("up from %d: expected %d, got %d", tc.in, tc.next, got)
		}
		if got := stepCurveWindow(tc.in, -1); got != tc.prev {
			t.Fatalf("down from %d: expected %d, got %d", tc.in, tc.prev, got)
		}
	}
}

func TestLatestFirst(t *testing.T) {
	records := testRecords()
	out := latestFirst(records, 2)
	if len(out) != 2 || out[0].Result.WPM != 50 || out[1].Result.WPM != 45 {
		t.Fatalf("unexpected order: %+v", out)
	}
}

func TestFitLines(t *testing.T) {
	if out := fitLines("ab\ncd\nef", 3, 2); out != "ab \ncd " {
		t.Fatalf("unexpected fit: %q", out)
	}
	if out := fitLines("ab", 2, 2); out != "ab\n  " {
		t.Fatalf("unexpected padding: %q", out)
	}
}

func TestTruncateLine(t *testing.T) {
	if out := truncateLine("abcdefgh", 6); out != "abc..." {
		t.Fatalf("unexpected truncation: %q", out)
	}
	if out := truncateLine("abc", 6); out != "abc" {
		t.Fatalf("expected short text unchanged, got %q", out)
	}
}
