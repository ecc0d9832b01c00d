package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	if !reflect.DeepEqual(got, []float64{2, 3, 5, 7}) {
		t.Fatalf("unexpected moving average: %v", got)
	}
	in := []float64{1, 2}
	got = MovingAverage(in, 1)
	got[0] = 9
	if in[0] != 1 {
		t.Fatalf("expected a copy for window 1")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestSummarizeSkipsMissingCodeMetrics(t *testing.T) {
	records := []model.ProgressRecord{
		record("go", day(0), 40, 90, model.SpecialCharStats{Brackets: model.Counter{Incorrect: 2}}),
		{Result: model.Result{WPM: 20, Accuracy: 100, Time: 30}},
	}
	s := Summarize(records)
	if s.Sessions != 2 || s.AvgWPM != 30 || s.AvgAccuracy != 95 || s.BestWPM != 40 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.SyntaxErrors != 2 || s.TotalTime != 90*time.Second {
		t.Fatalf("unexpected totals: %+v", s)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		42 * time.Second:                           "42s",
		3*time.Minute + 5*time.Second:              "3m05s",
		time.Hour + 2*time.Minute + 10*time.Second: "1h02m",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
