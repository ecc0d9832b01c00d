// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	User       string
	Lang       string
	Difficulty string
	SnippetID  string
	IndentUnit string
	CacheTTL   time.Duration
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Snippet is a piece of code to be typed.
type Snippet struct {
	ID         string    `db:"id" yaml:"id" validate:"required"`
	Language   string    `db:"language" yaml:"language" validate:"required"`
	Title      string    `db:"title" yaml:"title"`
	Difficulty string    `db:"difficulty" yaml:"difficulty" validate:"oneof=easy medium hard"`
	Category   string    `db:"category" yaml:"category"`
	Code       string    `db:"code" yaml:"code" validate:"required"`
	CreatedAt  time.Time `db:"created_at" yaml:"-"`
}

// SnippetFilter narrows snippet listings.
type SnippetFilter struct {
	Language   string
	Difficulty string
	Limit      int
}

// LanguageCount reports how many snippets exist for a language.
type LanguageCount struct {
	Language string `db:"language"`
	Count    int    `db:"count"`
}

// Counter holds correct and incorrect tallies for one character class.
type Counter struct {
	Correct   int
	Incorrect int
}

// SpecialCharStats tracks correctness per special-character class.
type SpecialCharStats struct {
	Brackets    Counter
	Semicolons  Counter
	Parentheses Counter
	Indentation Counter
}

// CodeMetrics are the code-specific parts of a result.
type CodeMetrics struct {
	SpecialCharCount  int
	SyntaxErrorCount  int
	IndentationErrors int
}

// Result is the final score of a completed typing session.
// Code is nil for sessions that were not scored as code.
type Result struct {
	WPM               int
	Accuracy          int
	Errors            int
	Time              int
	CharactersTyped   int
	CorrectCharacters int
	Code              *CodeMetrics
}

// ProgressRecord is a completed session as stored by the progress sink.
type ProgressRecord struct {
	ID         int64
	User       string
	SnippetID  string
	Language   string
	Difficulty string
	StartedAt  time.Time
	EndedAt    time.Time
	Result     Result
	Special    SpecialCharStats
}

// ClassAggregate sums special-character counters across sessions.
type ClassAggregate struct {
	Sessions int
	SpecialCharStats
}

// LanguageProgress summarizes practice for one language.
type LanguageProgress struct {
	Language        string
	AverageWPM      float64
	AverageAccuracy float64
	PracticeCount   int
	LastPracticed   time.Time
	BestWPM         int
	CommonErrors    []string
}

// UserProgress summarizes practice across languages.
type UserProgress struct {
	Languages         map[string]LanguageProgress
	LastPracticed     time.Time
	Streak            int
	TotalPracticeTime int
	CompletedSnippets int
}

// Preferences are per-user display and practice options.
type Preferences struct {
	Theme           string `validate:"oneof=light dark system"`
	FontSize        string `validate:"oneof=small medium large"`
	KeyboardSounds  bool
	ShowLineNumbers bool
	TestDuration    int `validate:"oneof=15 30 60 120 300"`
	AutoComplete    bool
	IncludeComments bool
}
