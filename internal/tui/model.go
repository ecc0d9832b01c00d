// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/prefs"
	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/snippet"
	statsPkg "github.com/verte-zerg/codetype/internal/stats"
)

// ResultStore persists completed sessions and answers the queries the
// footer and weak-class focus need.
type ResultStore interface {
	InsertResult(ctx context.Context, rec model.ProgressRecord) (int64, error)
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ProgressRecord, error)
	ClassTotals(ctx context.Context, user, lang string, window int) (model.ClassAggregate, error)
}

// SnippetSource picks the next snippet to practice.
type SnippetSource interface {
	Next(ctx context.Context, req snippet.Request) (model.Snippet, error)
}

// Options configures a practice Model.
type Options struct {
	Config   model.Config
	Prefs    model.Preferences
	Store    ResultStore
	Snippets SnippetSource
	Logger   *zap.Logger
	// Now defaults to time.Now.
	Now      func() time.Time
	// Initial is practiced first instead of asking Snippets.
	Initial  *model.Snippet
	// Bell receives the keyboard-sound bell; defaults to os.Stderr.
	Bell     io.Writer
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	prefs    model.Preferences
	store    ResultStore
	snippets SnippetSource
	log      *zap.Logger
	now      func() time.Time
	bell     io.Writer
	palette  palette

	width  int
	height int

	snippet     model.Snippet
	session     *scorer.Session
	targetRunes []rune
	inputRunes  []rune

	result      *model.Result
	pendingSave *model.ProgressRecord
	status      string
	weak        []string

	lastWPM int
	lastAcc int
	hasLast bool

	allCorrect int
	allTyped   int
	allTimeMs  int64
	hasAll     bool
}

// NewModel constructs a practice model and loads its first snippet.
func NewModel(opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("result store is required")
	}
	if opts.Initial == nil && opts.Snippets == nil {
		return nil, fmt.Errorf("snippet source is required")
	}
	m := &Model{
		config:   opts.Config,
		prefs:    opts.Prefs,
		store:    opts.Store,
		snippets: opts.Snippets,
		log:      opts.Logger,
		now:      opts.Now,
		bell:     opts.Bell,
		palette:  paletteFor(opts.Prefs.Theme),
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.bell == nil {
		m.bell = os.Stderr
	}
	if m.config.FocusWeak {
		m.refreshWeak()
	}

	first := opts.Initial
	if first == nil {
		sn, err := m.snippets.Next(context.Background(), m.request(""))
		if err != nil {
			return nil, fmt.Errorf("failed to load snippet: %w", err)
		}
		first = &sn
	}
	session, err := scorer.New(m.prepareTarget(*first), scorer.Config{
		IndentUnit: m.config.IndentUnit,
		Now:        m.now,
		OnComplete: m.complete,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session for snippet %s: %w", first.ID, err)
	}
	m.session = session
	m.setSnippet(*first)
	m.loadFooterStats()
	return m, nil
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
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.restart()
		case tea.KeyCtrlN:
			m.nextSnippet()
		case tea.KeyCtrlS:
			m.retrySave()
		case tea.KeyEnter:
			if m.result != nil {
				m.nextSnippet()
				return m, nil
			}
			m.handleRunes([]rune{'\n'})
		case tea.KeyTab:
			m.handleIndent()
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	var content string
	if m.result != nil {
		content = m.renderResult()
	} else {
		content = m.renderCode()
	}
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + content + "\n\n" + footer
	}
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Top, header)
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(m.height-1-footerHeight, 1)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return headerLine + "\n" + body + "\n" + footerBlock
}

func (m *Model) renderCode() string {
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	styled := buildStyledRunes(m.palette, m.targetRunes, m.inputRunes, cursorIndex)
	if m.width == 0 {
		return renderCode(m.palette, styled, m.prefs.ShowLineNumbers, 0)
	}
	contentWidth := max(int(float64(m.width)*0.85), 1)
	code := renderCode(m.palette, styled, m.prefs.ShowLineNumbers, contentWidth)
	return lipgloss.NewStyle().Width(min(lipgloss.Width(code)+1, contentWidth)).Render(code)
}

func (m *Model) renderHeader() string {
	title := m.snippet.Title
	if title == "" {
		title = m.snippet.ID
	}
	left := m.palette.title.Render(title) + m.palette.footer.Render(" · "+m.snippet.Language+" · "+m.snippet.Difficulty)
	autocomplete := "off"
	if m.prefs.AutoComplete {
		autocomplete = "on"
	}
	right := fmt.Sprintf("%dpt · %ds test · autocomplete %s",
		prefs.FontSizePoints(m.prefs.FontSize), m.prefs.TestDuration, autocomplete)
	return left + "   " + m.palette.footer.Render(right)
}

func (m *Model) renderFooter() string {
	if len(m.targetRunes) == 0 {
		return ""
	}
	state := m.session.State()
	progress := int(float64(state.CurrentIndex) / float64(len(m.targetRunes)) * 100)
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Errors %d", state.Errors),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %d%%", m.lastWPM, m.lastAcc))
	}
	if m.hasAll {
		segments = append(segments, fmt.Sprintf("All-time %d WPM · %d%%",
			scorer.WPM(m.allCorrect, m.allTimeMs), scorer.Accuracy(m.allCorrect, m.allTyped)))
	}
	if m.config.FocusWeak && len(m.weak) > 0 {
		segments = append(segments, "Focus "+strings.Join(m.weak, ", "))
	}
	footer := m.palette.footer.Render(strings.Join(segments, "  "))
	if m.status != "" {
		footer += "\n" + m.palette.status.Render(m.status)
	}
	return footer
}

func (m *Model) renderResult() string {
	r := m.result
	t := statsPkg.Table{Right: map[int]bool{1: true}}
	t.Rows = [][]string{
		{"WPM", fmt.Sprintf("%d", r.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", r.Accuracy)},
		{"Errors", fmt.Sprintf("%d", r.Errors)},
		{"Time", statsPkg.FormatDuration(time.Duration(r.Time) * time.Second)},
		{"Characters", fmt.Sprintf("%d/%d", r.CorrectCharacters, r.CharactersTyped)},
	}
	if r.Code != nil {
		t.Rows = append(t.Rows,
			[]string{"Special chars", fmt.Sprintf("%d", r.Code.SpecialCharCount)},
			[]string{"Syntax errors", fmt.Sprintf("%d", r.Code.SyntaxErrorCount)},
			[]string{"Indent errors", fmt.Sprintf("%d", r.Code.IndentationErrors)},
		)
	}
	lines := append([]string{m.palette.title.Render("Snippet complete"), ""}, t.Lines()...)
	lines = append(lines, "", m.palette.footer.Render("enter next · ctrl+r retry · esc quit"))
	return m.palette.card.Render(strings.Join(lines, "\n"))
}

func (m *Model) handleBackspace() {
	if m.result != nil || len(m.inputRunes) == 0 {
		return
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
	m.session.ProcessInput(string(m.inputRunes))
}

func (m *Model) handleRunes(runes []rune) {
	if m.result != nil {
		return
	}
	mistyped := false
	for _, r := range runes {
		pos := len(m.inputRunes)
		if pos >= len(m.targetRunes) {
			break
		}
		if r != m.targetRunes[pos] {
			mistyped = true
		}
		m.inputRunes = append(m.inputRunes, r)
	}
	if mistyped {
		m.ringBell()
	}
	m.session.ProcessInput(string(m.inputRunes))
}

func (m *Model) handleIndent() {
	if m.result != nil || len(m.inputRunes) >= len(m.targetRunes) {
		return
	}
	before := m.session.Special().Indentation.Incorrect
	text, _ := m.session.InsertIndent(string(m.inputRunes), len(m.inputRunes))
	runes := []rune(text)
	if len(runes) > len(m.targetRunes) {
		runes = runes[:len(m.targetRunes)]
	}
	m.inputRunes = runes
	if m.session.Special().Indentation.Incorrect > before {
		m.ringBell()
	}
}

func (m *Model) ringBell() {
	if !m.prefs.KeyboardSounds {
		return
	}
	if _, err := io.WriteString(m.bell, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
}

// complete is called by the session exactly once when the target is typed.
func (m *Model) complete(result model.Result) {
	state := m.session.State()
	m.result = &result
	rec := model.ProgressRecord{
		User:       m.config.User,
		SnippetID:  m.snippet.ID,
		Language:   m.snippet.Language,
		Difficulty: m.snippet.Difficulty,
		StartedAt:  state.StartTime,
		EndedAt:    state.EndTime,
		Result:     result,
		Special:    m.session.Special(),
	}
	m.save(rec)

	m.lastWPM = result.WPM
	m.lastAcc = result.Accuracy
	m.hasLast = true
	m.addAllTime(result, state.EndTime.Sub(state.StartTime).Milliseconds())

	if m.config.FocusWeak {
		m.refreshWeak()
	}
}

func (m *Model) save(rec model.ProgressRecord) {
	id, err := m.store.InsertResult(context.Background(), rec)
	if err != nil {
		m.log.Error("failed to save result",
			zap.String("user", rec.User),
			zap.String("snippet", rec.SnippetID),
			zap.Error(err))
		m.pendingSave = &rec
		m.status = fmt.Sprintf("failed to save result: %v (ctrl+s to retry)", err)
		return
	}
	m.log.Debug("result saved", zap.Int64("id", id), zap.String("snippet", rec.SnippetID))
	m.pendingSave = nil
	m.status = ""
}

func (m *Model) retrySave() {
	if m.pendingSave == nil {
		return
	}
	m.save(*m.pendingSave)
}

func (m *Model) restart() {
	m.session.Reset()
	m.inputRunes = nil
	m.result = nil
}

func (m *Model) nextSnippet() {
	sn, err := m.snippets.Next(context.Background(), m.request(m.snippet.ID))
	if err != nil {
		m.log.Warn("failed to load snippet",
			zap.String("lang", m.config.Lang),
			zap.String("difficulty", m.config.Difficulty),
			zap.Error(err))
		m.status = fmt.Sprintf("failed to load snippet: %v (ctrl+n to retry)", err)
		return
	}
	if err := m.session.ResetTarget(m.prepareTarget(sn)); err != nil {
		m.log.Warn("skipping snippet", zap.String("snippet", sn.ID), zap.Error(err))
		m.status = fmt.Sprintf("snippet %s is empty (ctrl+n to skip)", sn.ID)
		return
	}
	m.setSnippet(sn)
	if m.pendingSave == nil {
		m.status = ""
	}
}

func (m *Model) setSnippet(sn model.Snippet) {
	m.snippet = sn
	m.targetRunes = []rune(m.session.Target())
	m.inputRunes = nil
	m.result = nil
}

// prepareTarget returns the text to type for sn. Comments are stripped
// unless the user includes them; a snippet that is all comments is kept
// whole.
func (m *Model) prepareTarget(sn model.Snippet) string {
	if m.prefs.IncludeComments {
		return sn.Code
	}
	if stripped := snippet.StripComments(sn.Code, sn.Language); stripped != "" {
		return stripped
	}
	return sn.Code
}

func (m *Model) request(excludeID string) snippet.Request {
	req := snippet.Request{
		Language:   m.config.Lang,
		Difficulty: m.config.Difficulty,
		ExcludeID:  excludeID,
	}
	if m.config.FocusWeak {
		req.Weak = m.weak
		req.WeakFactor = m.config.WeakFactor
	}
	return req
}

func (m *Model) loadFooterStats() {
	records, err := m.store.ListResults(context.Background(), model.StatsConfig{
		User: m.config.User,
		Lang: m.config.Lang,
	})
	if err != nil {
		m.log.Warn("failed to load footer stats", zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}
	last := records[len(records)-1].Result
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	for _, rec := range records {
		m.addAllTime(rec.Result, rec.EndedAt.Sub(rec.StartedAt).Milliseconds())
	}
}

func (m *Model) addAllTime(r model.Result, durationMs int64) {
	m.allCorrect += r.CorrectCharacters
	m.allTyped += r.CharactersTyped
	m.allTimeMs += durationMs
	m.hasAll = true
}

func (m *Model) refreshWeak() {
	agg, err := m.store.ClassTotals(context.Background(), m.config.User, m.config.Lang, m.config.WeakWindow)
	if err != nil {
		m.log.Warn("failed to load class totals", zap.Error(err))
		return
	}
	if agg.Sessions == 0 {
		m.log.Info("no results for weak-class focus yet")
		m.weak = nil
		return
	}
	m.weak = statsPkg.SelectWeakBuckets(agg.SpecialCharStats, m.config.WeakTop)
}
