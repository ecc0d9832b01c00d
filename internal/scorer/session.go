package scorer

import (
	"errors"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// DefaultIndentUnit is what one indent action inserts.
const DefaultIndentUnit = "  "

// ErrEmptyTarget is returned when a session is created for an empty snippet.
var ErrEmptyTarget = errors.New("target is empty")

// State is the running state of one typing session.
type State struct {
	Started      bool
	Completed    bool
	StartTime    time.Time
	EndTime      time.Time
	CurrentIndex int
	Errors       int
	CorrectChars int
	TotalChars   int
}

// Config wires a session to its clock and observers.
type Config struct {
	// IndentUnit defaults to DefaultIndentUnit.
	IndentUnit string
	// Plain disables code metrics in the final result.
	Plain      bool
	// Now defaults to time.Now.
	Now        func() time.Time
	OnProgress func(currentIndex, errors int)
	OnComplete func(model.Result)
}

// Session scores one attempt at typing a target. It is not safe for
// concurrent use; one caller owns it for the life of the attempt.
type Session struct {
	cfg     Config
	target  []rune
	raw     string
	state   State
	special model.SpecialCharStats

	// classified marks how far special characters have been counted, so
	// repeated or shrinking input never counts a position twice.
	classified int
}

// New creates a session for target.
func New(target string, cfg Config) (*Session, error) {
	if cfg.IndentUnit == "" {
		cfg.IndentUnit = DefaultIndentUnit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{cfg: cfg}
	if err := s.ResetTarget(target); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset clears all progress against the current target.
func (s *Session) Reset() {
	s.state = State{TotalChars: len(s.target)}
	s.special = model.SpecialCharStats{}
	s.classified = 0
}

// ResetTarget clears all progress and switches to a new target.
func (s *Session) ResetTarget(target string) error {
	if target == "" {
		return ErrEmptyTarget
	}
	s.raw = target
	s.target = []rune(target)
	s.Reset()
	return nil
}

// ProcessInput scores the full submitted text. Calling it twice with the same
// text leaves the state unchanged. Input past the end of the target is ignored.
// Once the session completes, further input is ignored.
func (s *Session) ProcessInput(submitted string) State {
	if s.state.Completed {
		return s.state
	}
	typed := []rune(submitted)
	if !s.state.Started && len(typed) > 0 {
		s.state.Started = true
		s.state.StartTime = s.cfg.Now()
	}

	n := min(len(typed), len(s.target))
	correct, errs := 0, 0
	for i := 0; i < n; i++ {
		ok := typed[i] == s.target[i]
		if ok {
			correct++
		} else {
			errs++
		}
		if i >= s.classified {
			RecordClassification(Classify(s.target[i]), ok, &s.special)
		}
	}
	if n > s.classified {
		s.classified = n
	}
	s.state.CurrentIndex = n
	s.state.CorrectChars = correct
	s.state.Errors = errs

	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(s.state.CurrentIndex, s.state.Errors)
	}

	if n == len(s.target) && s.state.Started {
		s.state.Completed = true
		s.state.EndTime = s.cfg.Now()
		if s.cfg.OnComplete != nil {
			if result, err := s.Result(); err == nil {
				s.cfg.OnComplete(result)
			}
		}
	}
	return s.state
}

// InsertIndent handles an indent action at cursor (a rune offset into
// submitted). The inserted unit is checked against the indentation the
// target expects there, then the new text is scored as ordinary input.
func (s *Session) InsertIndent(submitted string, cursor int) (string, State) {
	if s.state.Completed {
		return submitted, s.state
	}
	typed := []rune(submitted)
	if cursor < 0 || cursor > len(typed) {
		cursor = len(typed)
	}
	RecordIndentation(ExpectedIndent(s.target, cursor), s.cfg.IndentUnit, &s.special)

	next := make([]rune, 0, len(typed)+len(s.cfg.IndentUnit))
	next = append(next, typed[:cursor]...)
	next = append(next, []rune(s.cfg.IndentUnit)...)
	next = append(next, typed[cursor:]...)
	text := string(next)
	return text, s.ProcessInput(text)
}

// Result returns the final result once the session has completed.
func (s *Session) Result() (model.Result, error) {
	if s.cfg.Plain {
		return Aggregate(s.state, nil, s.raw)
	}
	special := s.special
	return Aggregate(s.state, &special, s.raw)
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state
}

// Special returns a copy of the special-character counters.
func (s *Session) Special() model.SpecialCharStats {
	return s.special
}

// Target returns the text being typed.
func (s *Session) Target() string {
	return s.raw
}

// IndentUnit returns what one indent action inserts.
func (s *Session) IndentUnit() string {
	return s.cfg.IndentUnit
}

// ExpectedIndent returns the indentation the target still expects at cursor:
// the run of spaces and tabs starting at cursor, provided cursor sits inside
// the leading whitespace of its line. Otherwise it returns "".
func ExpectedIndent(target []rune, cursor int) string {
	if cursor < 0 || cursor > len(target) {
		return ""
	}
	lineStart := cursor
	for lineStart > 0 && target[lineStart-1] != '\n' {
		lineStart--
	}
	for i := lineStart; i < cursor; i++ {
		if !isIndentRune(target[i]) {
			return ""
		}
	}
	end := cursor
	for end < len(target) && isIndentRune(target[end]) {
		end++
	}
	return string(target[cursor:end])
}

func isIndentRune(r rune) bool {
	return r == ' ' || r == '\t'
}
