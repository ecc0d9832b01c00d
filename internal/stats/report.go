package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// ResultSource lists stored results.
type ResultSource interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ProgressRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records       []model.ProgressRecord
	// Window holds the most recent CurveWindow records.
	Window        []model.ProgressRecord
	Summary       Summary
	Progress      model.UserProgress
	Classes       model.ClassAggregate
	// WindowClasses sums the special-character counters over Window.
	WindowClasses model.ClassAggregate
}

// BuildReport loads results matching cfg and prepares them for rendering.
func BuildReport(ctx context.Context, src ResultSource, cfg model.StatsConfig, now time.Time) (Report, error) {
	records, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load results: %w", err)
	}
	return NewReport(records, cfg.CurveWindow, now), nil
}

// NewReport prepares records, oldest first, for rendering.
func NewReport(records []model.ProgressRecord, window int, now time.Time) Report {
	win := records
	if window > 0 && len(records) > window {
		win = records[len(records)-window:]
	}
	return Report{
		Records:       records,
		Window:        win,
		Summary:       Summarize(records),
		Progress:      BuildProgress(records, now),
		Classes:       SumClasses(records),
		WindowClasses: SumClasses(win),
	}
}

// RenderReport prints the full plain-text report.
func RenderReport(w io.Writer, r Report, window, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Records); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Streak: %d day(s)\n\n", r.Progress.Streak); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Records, window, totalWidth, 0, useColor); err != nil {
		return err
	}
	if err := LanguageTable(r.Progress).Write(w, "Languages"); err != nil {
		return err
	}
	title := "Code Errors"
	if len(r.Window) < len(r.Records) {
		title = fmt.Sprintf("Code Errors (last %d)", len(r.Window))
	}
	return ClassTable(r.WindowClasses.SpecialCharStats).Write(w, title)
}
