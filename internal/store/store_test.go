package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/prefs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "codetype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSnippetsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snippets := []model.Snippet{
		{ID: "a", Language: "go", Title: "A", Difficulty: "easy", Code: "x := 1", CreatedAt: base},
		{ID: "b", Language: "go", Title: "B", Difficulty: "hard", Code: "y := 2", CreatedAt: base.Add(time.Hour)},
		{ID: "c", Language: "python", Title: "C", Difficulty: "easy", Code: "z = 3", CreatedAt: base.Add(2 * time.Hour)},
	}
	n, err := st.UpsertSnippets(ctx, snippets)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 upserted, got %d", n)
	}

	count, err := st.CountSnippets(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 snippets, got %d", count)
	}

	goSnippets, err := st.ListSnippets(ctx, model.SnippetFilter{Language: "go"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goSnippets) != 2 || goSnippets[0].ID != "b" || goSnippets[1].ID != "a" {
		t.Fatalf("expected [b a] newest first, got %+v", goSnippets)
	}

	easy, err := st.ListSnippets(ctx, model.SnippetFilter{Difficulty: "easy", Limit: 1})
	if err != nil {
		t.Fatalf("list easy: %v", err)
	}
	if len(easy) != 1 || easy[0].ID != "c" {
		t.Fatalf("expected [c], got %+v", easy)
	}

	snippets[0].Code = "x := 10"
	if _, err := st.UpsertSnippets(ctx, snippets[:1]); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	got, err := st.GetSnippet(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "x := 10" || !got.CreatedAt.Equal(base) {
		t.Fatalf("unexpected snippet after update: %+v", got)
	}

	if _, err := st.GetSnippet(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	langs, err := st.ListLanguages(ctx)
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if len(langs) != 2 || langs[0] != (model.LanguageCount{Language: "go", Count: 2}) {
		t.Fatalf("unexpected languages: %+v", langs)
	}
}

func testRecord(user, lang string, end time.Time, wpm int, special model.SpecialCharStats) model.ProgressRecord {
	return model.ProgressRecord{
		User:       user,
		SnippetID:  "s1",
		Language:   lang,
		Difficulty: "easy",
		StartedAt:  end.Add(-30 * time.Second),
		EndedAt:    end,
		Result: model.Result{
			WPM:               wpm,
			Accuracy:          90,
			Errors:            2,
			Time:              30,
			CharactersTyped:   20,
			CorrectCharacters: 18,
			Code:              &model.CodeMetrics{SpecialCharCount: 4, SyntaxErrorCount: 1, IndentationErrors: 1},
		},
		Special: special,
	}
}

func TestResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	special := model.SpecialCharStats{
		Brackets:    model.Counter{Correct: 2, Incorrect: 1},
		Semicolons:  model.Counter{Correct: 1},
		Parentheses: model.Counter{Correct: 3, Incorrect: 2},
		Indentation: model.Counter{Correct: 1, Incorrect: 1},
	}
	for i := 0; i < 3; i++ {
		rec := testRecord("ana", "go", base.Add(time.Duration(i)*time.Hour), 40+i, special)
		if _, err := st.InsertResult(ctx, rec); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}
	plain := testRecord("ana", "python", base.Add(5*time.Hour), 60, model.SpecialCharStats{})
	plain.Result.Code = nil
	if _, err := st.InsertResult(ctx, plain); err != nil {
		t.Fatalf("insert plain: %v", err)
	}
	if _, err := st.InsertResult(ctx, testRecord("bo", "go", base, 10, special)); err != nil {
		t.Fatalf("insert other user: %v", err)
	}

	all, err := st.ListResults(ctx, model.StatsConfig{User: "ana"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 results, got %d", len(all))
	}
	if all[0].Result.WPM != 40 || all[3].Language != "python" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].Result.Code == nil || all[0].Result.Code.SyntaxErrorCount != 1 {
		t.Fatalf("expected code metrics, got %+v", all[0].Result.Code)
	}
	if all[3].Result.Code != nil {
		t.Fatalf("expected nil code metrics for plain result")
	}
	if all[0].Special != special {
		t.Fatalf("special stats mismatch: %+v", all[0].Special)
	}

	since := base.Add(90 * time.Minute)
	filtered, err := st.ListResults(ctx, model.StatsConfig{User: "ana", Lang: "go", Since: &since})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Result.WPM != 42 {
		t.Fatalf("unexpected filtered results: %+v", filtered)
	}

	recent, err := st.RecentResults(ctx, "ana", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Language != "python" || recent[1].Result.WPM != 42 {
		t.Fatalf("unexpected recent results: %+v", recent)
	}

	totals, err := st.ClassTotals(ctx, "ana", "go", 2)
	if err != nil {
		t.Fatalf("class totals: %v", err)
	}
	if totals.Sessions != 2 {
		t.Fatalf("expected 2 sessions, got %d", totals.Sessions)
	}
	if totals.Parentheses != (model.Counter{Correct: 6, Incorrect: 4}) {
		t.Fatalf("unexpected parentheses totals: %+v", totals.Parentheses)
	}

	empty, err := st.ClassTotals(ctx, "nobody", "", 10)
	if err != nil {
		t.Fatalf("class totals empty: %v", err)
	}
	if empty.Sessions != 0 || empty.Brackets != (model.Counter{}) {
		t.Fatalf("expected zero totals, got %+v", empty)
	}
}

func TestPreferences(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p, ok, err := st.GetPreferences(ctx, "ana")
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if ok || p != prefs.Defaults() {
		t.Fatalf("expected defaults, got %+v (stored=%v)", p, ok)
	}

	p.Theme = "dark"
	p.FontSize = "large"
	p.ShowLineNumbers = false
	if err := st.SavePreferences(ctx, "ana", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.TestDuration = 120
	if err := st.SavePreferences(ctx, "ana", p); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, ok, err := st.GetPreferences(ctx, "ana")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if !ok || got != p {
		t.Fatalf("expected %+v, got %+v", p, got)
	}

	p.Theme = "neon"
	if err := st.SavePreferences(ctx, "ana", p); !errors.Is(err, prefs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestListResultsLast(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := testRecord("ana", "go", base.Add(time.Duration(i)*time.Minute), 30+i, model.SpecialCharStats{})
		if _, err := st.InsertResult(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err := st.ListResults(ctx, model.StatsConfig{User: "ana", Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Result.WPM != 33 || got[1].Result.WPM != 34 {
		t.Fatalf("unexpected last results: %+v", got)
	}
}
