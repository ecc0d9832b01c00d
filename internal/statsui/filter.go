package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/snippet"
)

const dateLayout = "2006-01-02"

const (
	fieldLang = iota
	fieldSince
	fieldLast
	fieldWindow
	fieldCount
)

// filterForm edits the report filters. While active it replaces the tab body.
type filterForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
	active bool
}

func newFilterForm() filterForm {
	prompts := [fieldCount]string{
		fieldLang:   "Lang: ",
		fieldSince:  "Since (YYYY-MM-DD): ",
		fieldLast:   "Last: ",
		fieldWindow: "Curve window: ",
	}
	var f filterForm
	for i, prompt := range prompts {
		input := textinput.New()
		input.Prompt = prompt
		input.Cursor.SetMode(cursor.CursorBlink)
		f.inputs[i] = input
	}
	return f
}

// open fills the inputs from cfg and focuses the first field.
func (f *filterForm) open(cfg model.StatsConfig) tea.Cmd {
	f.active = true
	f.err = ""
	since, last := "", ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldLang].SetValue(cfg.Lang)
	f.inputs[fieldSince].SetValue(since)
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focusField(0)
}

func (f *filterForm) close() {
	f.active = false
	f.err = ""
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	f.focus = (idx%fieldCount + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

// update handles a key while the form is open. It returns the new config
// once the user applies a valid form.
func (f *filterForm) update(msg tea.KeyMsg, current model.StatsConfig) (*model.StatsConfig, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.close()
		return nil, nil
	case tea.KeyEnter:
		cfg, err := f.parse(current)
		if err != nil {
			f.err = err.Error()
			return nil, nil
		}
		f.close()
		return &cfg, nil
	case tea.KeyTab:
		return nil, f.focusField(f.focus + 1)
	case tea.KeyShiftTab:
		return nil, f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return nil, cmd
}

// parse builds a config from the inputs. The user is carried over from
// current, and so is the curve window when its field is left empty.
func (f *filterForm) parse(current model.StatsConfig) (model.StatsConfig, error) {
	cfg := model.StatsConfig{User: current.User, CurveWindow: current.CurveWindow}
	if v := f.value(fieldLang); v != "" {
		cfg.Lang = snippet.NormalizeLanguage(v)
	}
	if v := f.value(fieldSince); v != "" {
		since, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date %q (expected YYYY-MM-DD)", v)
		}
		cfg.Since = &since
	}
	if v := f.value(fieldLast); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid last value %q (expected 0 or more)", v)
		}
		cfg.Last = n
	}
	if v := f.value(fieldWindow); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid curve window %q (expected 1 or more)", v)
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}

func (f *filterForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

func (f *filterForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
