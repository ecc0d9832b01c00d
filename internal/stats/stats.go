// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of results.
type Summary struct {
	Sessions          int
	AvgWPM            float64
	BestWPM           int
	AvgAccuracy       float64
	TotalTime         time.Duration
	TotalErrors       int
	SyntaxErrors      int
	IndentationErrors int
	SpecialChars      int
}

// Summarize computes averages and totals over records.
func Summarize(records []model.ProgressRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}
	var wpmSum, accSum float64
	for _, rec := range records {
		res := rec.Result
		wpmSum += float64(res.WPM)
		accSum += float64(res.Accuracy)
		if res.WPM > s.BestWPM {
			s.BestWPM = res.WPM
		}
		s.TotalTime += time.Duration(res.Time) * time.Second
		s.TotalErrors += res.Errors
		if res.Code != nil {
			s.SyntaxErrors += res.Code.SyntaxErrorCount
			s.IndentationErrors += res.Code.IndentationErrors
			s.SpecialChars += res.Code.SpecialCharCount
		}
	}
	s.Sessions = len(records)
	s.AvgWPM = wpmSum / float64(len(records))
	s.AvgAccuracy = accSum / float64(len(records))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := valueRange(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WPMSeries extracts per-result WPM values.
func WPMSeries(records []model.ProgressRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = float64(rec.Result.WPM)
	}
	return out
}

// AccuracySeries extracts per-result accuracy values.
func AccuracySeries(records []model.ProgressRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = float64(rec.Result.Accuracy)
	}
	return out
}

// FormatDuration renders a practice time as "1h02m", "3m05s" or "42s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// RenderSummary prints a summary block for records.
func RenderSummary(w io.Writer, records []model.ProgressRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Errors: %d (syntax %d, indentation %d)", s.TotalErrors, s.SyntaxErrors, s.IndentationErrors),
		fmt.Sprintf("Practice time: %s", FormatDuration(s.TotalTime)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints smoothed WPM and accuracy charts.
func RenderCurves(w io.Writer, records []model.ProgressRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = ChartWidthFor(totalWidth)
	}
	if err := RenderChart(w, Chart{
		Title:  "WPM",
		Series: []Series{{Name: "WPM", Values: MovingAverage(WPMSeries(records), window)}},
		Width:  width,
		Height: height,
		Color:  useColor,
	}); err != nil {
		return err
	}
	return RenderChart(w, Chart{
		Title:  "Accuracy",
		Series: []Series{{Name: "Accuracy %", Values: MovingAverage(AccuracySeries(records), window)}},
		Width:  width,
		Height: height,
		Fixed:  true,
		Min:    0,
		Max:    100,
		Color:  useColor,
	})
}

func valueRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
