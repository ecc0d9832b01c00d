// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

const (
	tabOverview = iota
	tabLanguages
	tabClasses
	tabRecent
	tabCount
)

var tableTabs = []int{tabLanguages, tabClasses, tabRecent}

const (
	plotHeight  = 10
	recentLimit = 50
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src stats.ResultSource
	cfg model.StatsConfig
	log *zap.Logger
	now func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    [tabCount]table.Model
	filter    filterForm

	width  int
	height int
}

// NewModel constructs a stats UI model. A nil logger discards diagnostics.
func NewModel(src stats.ResultSource, cfg model.StatsConfig, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		src:      src,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		tabs:     []string{"Overview", "Languages", "Code Errors", "Recent"},
		overview: viewport.New(0, 0),
		filter:   newFilterForm(),
	}
	for _, tab := range tableTabs {
		m.tables[tab] = newTable()
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.filter.active {
		cfg, cmd := m.filter.update(msg, m.cfg)
		if cfg != nil {
			m.cfg = *cfg
			m.refreshReport()
		}
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = stepCurveWindow(m.cfg.CurveWindow, 1)
		m.refreshReport()
	case "-":
		m.cfg.CurveWindow = stepCurveWindow(m.cfg.CurveWindow, -1)
		m.refreshReport()
	case "/":
		return m, m.filter.open(m.cfg)
	case "r":
		m.refreshReport()
	case "g", "home":
		m.scrollEdge(true)
	case "G", "end":
		m.scrollEdge(false)
	default:
		var cmd tea.Cmd
		if m.isTableTab() {
			m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) scrollEdge(top bool) {
	switch {
	case m.isTableTab() && top:
		m.tables[m.activeTab].GotoTop()
	case m.isTableTab():
		m.tables[m.activeTab].GotoBottom()
	case top:
		m.overview.GotoTop()
	default:
		m.overview.GotoBottom()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	return strings.Join([]string{
		fitLines(m.renderHeader(), m.width, headerHeight),
		fitLines(m.renderBody(), m.width, bodyHeight),
		fitLines(m.renderFooter(), m.width, footerHeight),
	}, "\n")
}

func (m *Model) isTableTab() bool {
	return m.activeTab != tabOverview
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.filter.active && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, tab := range tableTabs {
		// One line is reserved for the caption.
		setTableSize(&m.tables[tab], m.width, bodyHeight-1)
	}
	m.filter.setWidth(m.width)
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	for _, tab := range tableTabs {
		if tab == m.activeTab {
			m.tables[tab].Focus()
		} else {
			m.tables[tab].Blur()
		}
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return padLines(tabs, m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	lang := m.cfg.Lang
	if lang == "" {
		lang = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: user=%s  lang=%s  since=%s  last=%s  window=%d",
		m.cfg.User, lang, sinceLabel(m.cfg.Since), last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filter.active {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render(truncateLine(
		"Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Reload: r  Quit: q", m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	switch {
	case m.filter.active:
		return m.filter.view()
	case m.activeTab == tabOverview:
		return m.overview.View()
	case len(m.report.Records) == 0:
		return "No results found."
	}
	caption := headerStyle.Render(truncateLine(m.caption(), m.width))
	return caption + "\n" + tableMutedStyle.Render(m.tables[m.activeTab].View())
}

func (m *Model) caption() string {
	switch m.activeTab {
	case tabLanguages:
		p := m.report.Progress
		return fmt.Sprintf("%d language(s)  %d snippet(s) completed  streak %d day(s)",
			len(p.Languages), p.CompletedSnippets, p.Streak)
	case tabClasses:
		weak := stats.SelectWeakBuckets(m.report.WindowClasses.SpecialCharStats, 0)
		weakText := "none"
		if len(weak) > 0 {
			weakText = strings.Join(weak, ", ")
		}
		return fmt.Sprintf("Last %d result(s)  weak: %s", len(m.report.Window), weakText)
	case tabRecent:
		return fmt.Sprintf("Latest %d of %d result(s)", min(len(m.report.Records), recentLimit), len(m.report.Records))
	}
	return ""
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg, m.now())
	if err != nil {
		m.log.Warn("failed to load stats", zap.String("user", m.cfg.User), zap.Error(err))
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	applyTable(&m.tables[tabLanguages], stats.LanguageTable(report.Progress))
	applyTable(&m.tables[tabClasses], stats.ClassTable(report.WindowClasses.SpecialCharStats))
	applyTable(&m.tables[tabRecent], stats.RecentTable(latestFirst(report.Records, recentLimit)))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
}

// latestFirst returns up to limit records, newest first.
func latestFirst(records []model.ProgressRecord, limit int) []model.ProgressRecord {
	n := min(len(records), limit)
	out := make([]model.ProgressRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}
