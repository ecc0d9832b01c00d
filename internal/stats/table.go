package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/codetype/internal/model"
)

// Table is a header plus rows of text cells.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right marks right-aligned columns.
	Right   map[int]bool
}

// Lines lays the table out with columns padded to display width.
func (t Table) Lines() []string {
	colCount := len(t.Headers)
	for _, row := range t.Rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}
	widths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	lines := make([]string, 0, len(t.Rows)+1)
	if len(t.Headers) > 0 {
		lines = append(lines, t.formatRow(t.Headers, widths))
	}
	for _, row := range t.Rows {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

func (t Table) formatRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if t.Right[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// Write prints the table under a title followed by a blank line.
func (t Table) Write(w io.Writer, title string) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for _, line := range t.Lines() {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// LanguageTable lists per-language progress, most practiced first.
func LanguageTable(progress model.UserProgress) Table {
	t := Table{
		Headers: []string{"Language", "Sessions", "Avg WPM", "Best WPM", "Accuracy", "Last", "Common errors"},
		Right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
	for _, lp := range RankLanguages(progress) {
		errs := strings.Join(lp.CommonErrors, ", ")
		if errs == "" {
			errs = "-"
		}
		t.Rows = append(t.Rows, []string{
			lp.Language,
			fmt.Sprintf("%d", lp.PracticeCount),
			fmt.Sprintf("%.1f", lp.AverageWPM),
			fmt.Sprintf("%d", lp.BestWPM),
			fmt.Sprintf("%.1f%%", lp.AverageAccuracy),
			lp.LastPracticed.Local().Format("2006-01-02"),
			errs,
		})
	}
	return t
}

// ClassTable lists special-character buckets.
func ClassTable(stats model.SpecialCharStats) Table {
	t := Table{
		Headers: []string{"Class", "Accuracy", "Correct", "Incorrect"},
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}
	for _, r := range ClassRows(stats) {
		t.Rows = append(t.Rows, []string{
			r.Bucket,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	return t
}

// RecentTable lists results in the given order.
func RecentTable(records []model.ProgressRecord) Table {
	t := Table{
		Headers: []string{"When", "Language", "Difficulty", "WPM", "Accuracy", "Errors", "Time", "Syntax", "Indent"},
		Right:   map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true},
	}
	for _, rec := range records {
		syntax, indent := "-", "-"
		if code := rec.Result.Code; code != nil {
			syntax = fmt.Sprintf("%d", code.SyntaxErrorCount)
			indent = fmt.Sprintf("%d", code.IndentationErrors)
		}
		t.Rows = append(t.Rows, []string{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			rec.Language,
			rec.Difficulty,
			fmt.Sprintf("%d", rec.Result.WPM),
			fmt.Sprintf("%d%%", rec.Result.Accuracy),
			fmt.Sprintf("%d", rec.Result.Errors),
			fmt.Sprintf("%ds", rec.Result.Time),
			syntax,
			indent,
		})
	}
	return t
}
