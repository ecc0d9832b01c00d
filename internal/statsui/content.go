package statsui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/codetype/internal/stats"
)

func renderOverview(r stats.Report, window, width int) string {
	if len(r.Records) == 0 {
		return "No results found."
	}
	cards := renderSummaryCards(r, width)
	trend := headerStyle.Render("Recent WPM " + stats.Sparkline(stats.WPMSeries(r.Window)))
	curves := renderCurves(r, window, width)
	return strings.TrimRight(cards+"\n"+trend+"\n\n"+curves, "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	s := r.Summary
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", s.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", s.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
		metricCard("Streak", fmt.Sprintf("%d day(s)", r.Progress.Streak)),
		metricCard("Practice", stats.FormatDuration(s.TotalTime)),
		metricCard("Syntax errs", fmt.Sprintf("%d", s.SyntaxErrors)),
		metricCard("Indent errs", fmt.Sprintf("%d", s.IndentationErrors)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(r stats.Report, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, r.Records, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newTable() table.Model {
	t := table.New(table.WithHeight(1))
	t.SetStyles(tableStyles())
	return t
}

// applyTable loads a text table into a bubbles table, sizing each column
// to its widest cell.
func applyTable(t *table.Model, src stats.Table) {
	widths := make([]int, len(src.Headers))
	for i, h := range src.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	rows := make([]table.Row, 0, len(src.Rows))
	for _, row := range src.Rows {
		cells := make(table.Row, len(src.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
		rows = append(rows, cells)
	}
	columns := make([]table.Column, len(src.Headers))
	for i, h := range src.Headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}
	// SetColumns renders the current rows, which may be narrower.
	t.SetRows(nil)
	t.SetColumns(columns)
	t.SetRows(rows)
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// setTableSize fits the whole table view, header included, into height
// lines.
func setTableSize(t *table.Model, width, height int) {
	target := max(height, 1)
	t.SetWidth(width)
	t.SetHeight(target)
	for range 2 {
		diff := target - lipgloss.Height(t.View())
		if diff == 0 {
			return
		}
		t.SetHeight(max(t.Height()+diff, 1))
	}
}

// sinceLabel formats an optional since filter.
func sinceLabel(since *time.Time) string {
	if since == nil {
		return "any"
	}
	return since.Format("2006-01-02")
}
