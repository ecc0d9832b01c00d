package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

func TestBuildProgress(t *testing.T) {
	records := []model.ProgressRecord{
		record("go", day(-1), 30, 90, model.SpecialCharStats{
			Brackets:    model.Counter{Correct: 4, Incorrect: 1},
			Indentation: model.Counter{Correct: 1, Incorrect: 2},
		}),
		record("go", day(0), 50, 80, model.SpecialCharStats{Semicolons: model.Counter{Correct: 2}}),
		record("python", day(-3), 20, 100, model.SpecialCharStats{}),
	}
	progress := BuildProgress(records, testNow)

	if progress.CompletedSnippets != 3 || progress.TotalPracticeTime != 180 {
		t.Fatalf("unexpected totals: %+v", progress)
	}
	if !progress.LastPracticed.Equal(day(0)) {
		t.Fatalf("unexpected last practiced: %v", progress.LastPracticed)
	}
	if progress.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", progress.Streak)
	}

	goProgress := progress.Languages["go"]
	if goProgress.PracticeCount != 2 || goProgress.BestWPM != 50 || goProgress.AverageWPM != 40 || goProgress.AverageAccuracy != 85 {
		t.Fatalf("unexpected go progress: %+v", goProgress)
	}
	if !reflect.DeepEqual(goProgress.CommonErrors, []string{"indentation", "brackets"}) {
		t.Fatalf("unexpected common errors: %v", goProgress.CommonErrors)
	}
	if py := progress.Languages["python"]; len(py.CommonErrors) != 0 || !py.LastPracticed.Equal(day(-3)) {
		t.Fatalf("unexpected python progress: %+v", py)
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "empty", want: 0},
		{name: "today only", offsets: []int{0}, want: 1},
		{name: "ending yesterday", offsets: []int{-1, -2}, want: 2},
		{name: "gap breaks", offsets: []int{0, -1, -3}, want: 2},
		{name: "stale", offsets: []int{-2, -3}, want: 0},
		{name: "same day twice", offsets: []int{0, 0, -1}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []model.ProgressRecord
			for _, off := range tt.offsets {
				records = append(records, model.ProgressRecord{EndedAt: day(off).Add(-time.Hour)})
			}
			if got := Streak(records, testNow); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
