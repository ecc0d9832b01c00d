package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

type resultRow struct {
	ID                   int64  `db:"id"`
	User                 string `db:"user"`
	SnippetID            string `db:"snippet_id"`
	Language             string `db:"language"`
	Difficulty           string `db:"difficulty"`
	StartedAt            string `db:"started_at"`
	EndedAt              string `db:"ended_at"`
	WPM                  int    `db:"wpm"`
	Accuracy             int    `db:"accuracy"`
	Errors               int    `db:"errors"`
	TimeS                int    `db:"time_s"`
	CharsTyped           int    `db:"chars_typed"`
	CorrectChars         int    `db:"correct_chars"`
	CodeMetrics          bool   `db:"code_metrics"`
	SpecialCharCount     int    `db:"special_char_count"`
	SyntaxErrors         int    `db:"syntax_errors"`
	IndentationErrors    int    `db:"indentation_errors"`
	BracketsCorrect      int    `db:"brackets_correct"`
	BracketsIncorrect    int    `db:"brackets_incorrect"`
	SemicolonsCorrect    int    `db:"semicolons_correct"`
	SemicolonsIncorrect  int    `db:"semicolons_incorrect"`
	ParenthesesCorrect   int    `db:"parentheses_correct"`
	ParenthesesIncorrect int    `db:"parentheses_incorrect"`
	IndentationCorrect   int    `db:"indentation_correct"`
	IndentationIncorrect int    `db:"indentation_incorrect"`
}

const resultColumns = `id, user, snippet_id, language, difficulty, started_at, ended_at,
	wpm, accuracy, errors, time_s, chars_typed, correct_chars,
	code_metrics, special_char_count, syntax_errors, indentation_errors,
	brackets_correct, brackets_incorrect, semicolons_correct, semicolons_incorrect,
	parentheses_correct, parentheses_incorrect, indentation_correct, indentation_incorrect`

func toResultRow(rec model.ProgressRecord) resultRow {
	row := resultRow{
		User:                 rec.User,
		SnippetID:            rec.SnippetID,
		Language:             rec.Language,
		Difficulty:           rec.Difficulty,
		StartedAt:            rec.StartedAt.UTC().Format(timeLayout),
		EndedAt:              rec.EndedAt.UTC().Format(timeLayout),
		WPM:                  rec.Result.WPM,
		Accuracy:             rec.Result.Accuracy,
		Errors:               rec.Result.Errors,
		TimeS:                rec.Result.Time,
		CharsTyped:           rec.Result.CharactersTyped,
		CorrectChars:         rec.Result.CorrectCharacters,
		BracketsCorrect:      rec.Special.Brackets.Correct,
		BracketsIncorrect:    rec.Special.Brackets.Incorrect,
		SemicolonsCorrect:    rec.Special.Semicolons.Correct,
		SemicolonsIncorrect:  rec.Special.Semicolons.Incorrect,
		ParenthesesCorrect:   rec.Special.Parentheses.Correct,
		ParenthesesIncorrect: rec.Special.Parentheses.Incorrect,
		IndentationCorrect:   rec.Special.Indentation.Correct,
		IndentationIncorrect: rec.Special.Indentation.Incorrect,
	}
	if code := rec.Result.Code; code != nil {
		row.CodeMetrics = true
		row.SpecialCharCount = code.SpecialCharCount
		row.SyntaxErrors = code.SyntaxErrorCount
		row.IndentationErrors = code.IndentationErrors
	}
	return row
}

func (r resultRow) toModel() (model.ProgressRecord, error) {
	started, err := time.Parse(timeLayout, r.StartedAt)
	if err != nil {
		return model.ProgressRecord{}, err
	}
	ended, err := time.Parse(timeLayout, r.EndedAt)
	if err != nil {
		return model.ProgressRecord{}, err
	}
	rec := model.ProgressRecord{
		ID:         r.ID,
		User:       r.User,
		SnippetID:  r.SnippetID,
		Language:   r.Language,
		Difficulty: r.Difficulty,
		StartedAt:  started,
		EndedAt:    ended,
		Result: model.Result{
			WPM:               r.WPM,
			Accuracy:          r.Accuracy,
			Errors:            r.Errors,
			Time:              r.TimeS,
			CharactersTyped:   r.CharsTyped,
			CorrectCharacters: r.CorrectChars,
		},
		Special: model.SpecialCharStats{
			Brackets:    model.Counter{Correct: r.BracketsCorrect, Incorrect: r.BracketsIncorrect},
			Semicolons:  model.Counter{Correct: r.SemicolonsCorrect, Incorrect: r.SemicolonsIncorrect},
			Parentheses: model.Counter{Correct: r.ParenthesesCorrect, Incorrect: r.ParenthesesIncorrect},
			Indentation: model.Counter{Correct: r.IndentationCorrect, Incorrect: r.IndentationIncorrect},
		},
	}
	if r.CodeMetrics {
		rec.Result.Code = &model.CodeMetrics{
			SpecialCharCount:  r.SpecialCharCount,
			SyntaxErrorCount:  r.SyntaxErrors,
			IndentationErrors: r.IndentationErrors,
		}
	}
	return rec, nil
}

// InsertResult stores a completed session.
func (s *Store) InsertResult(ctx context.Context, rec model.ProgressRecord) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, `INSERT INTO results (
			user, snippet_id, language, difficulty, started_at, ended_at,
			wpm, accuracy, errors, time_s, chars_typed, correct_chars,
			code_metrics, special_char_count, syntax_errors, indentation_errors,
			brackets_correct, brackets_incorrect, semicolons_correct, semicolons_incorrect,
			parentheses_correct, parentheses_incorrect, indentation_correct, indentation_incorrect
		) VALUES (
			:user, :snippet_id, :language, :difficulty, :started_at, :ended_at,
			:wpm, :accuracy, :errors, :time_s, :chars_typed, :correct_chars,
			:code_metrics, :special_char_count, :syntax_errors, :indentation_errors,
			:brackets_correct, :brackets_incorrect, :semicolons_correct, :semicolons_incorrect,
			:parentheses_correct, :parentheses_incorrect, :indentation_correct, :indentation_incorrect
		)`, toResultRow(rec))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListResults returns results matching cfg, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ProgressRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.User != "" {
		clauses = append(clauses, "user = ?")
		args = append(args, cfg.User)
	}
	if cfg.Lang != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s ORDER BY ended_at ASC, id ASC`,
		resultColumns, strings.Join(clauses, " AND "))
	records, err := s.selectResults(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}

// RecentResults returns up to limit results for user, newest first.
func (s *Store) RecentResults(ctx context.Context, user string, limit int) ([]model.ProgressRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM results WHERE user = ? ORDER BY ended_at DESC, id DESC LIMIT ?`, resultColumns)
	return s.selectResults(ctx, query, user, limit)
}

func (s *Store) selectResults(ctx context.Context, query string, args ...any) ([]model.ProgressRecord, error) {
	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]model.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ClassTotals sums special-character counters over the most recent window
// results of user, optionally limited to one language.
func (s *Store) ClassTotals(ctx context.Context, user, lang string, window int) (model.ClassAggregate, error) {
	if window <= 0 {
		return model.ClassAggregate{}, nil
	}
	query := `WITH recent AS (
		SELECT * FROM results
		WHERE user = ? AND (? = '' OR language = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT COUNT(*) AS sessions,
		COALESCE(SUM(brackets_correct), 0) AS brackets_correct,
		COALESCE(SUM(brackets_incorrect), 0) AS brackets_incorrect,
		COALESCE(SUM(semicolons_correct), 0) AS semicolons_correct,
		COALESCE(SUM(semicolons_incorrect), 0) AS semicolons_incorrect,
		COALESCE(SUM(parentheses_correct), 0) AS parentheses_correct,
		COALESCE(SUM(parentheses_incorrect), 0) AS parentheses_incorrect,
		COALESCE(SUM(indentation_correct), 0) AS indentation_correct,
		COALESCE(SUM(indentation_incorrect), 0) AS indentation_incorrect
	FROM recent`
	var row struct {
		Sessions             int `db:"sessions"`
		BracketsCorrect      int `db:"brackets_correct"`
		BracketsIncorrect    int `db:"brackets_incorrect"`
		SemicolonsCorrect    int `db:"semicolons_correct"`
		SemicolonsIncorrect  int `db:"semicolons_incorrect"`
		ParenthesesCorrect   int `db:"parentheses_correct"`
		ParenthesesIncorrect int `db:"parentheses_incorrect"`
		IndentationCorrect   int `db:"indentation_correct"`
		IndentationIncorrect int `db:"indentation_incorrect"`
	}
	if err := s.db.GetContext(ctx, &row, query, user, lang, lang, window); err != nil {
		return model.ClassAggregate{}, err
	}
	return model.ClassAggregate{
		Sessions: row.Sessions,
		SpecialCharStats: model.SpecialCharStats{
			Brackets:    model.Counter{Correct: row.BracketsCorrect, Incorrect: row.BracketsIncorrect},
			Semicolons:  model.Counter{Correct: row.SemicolonsCorrect, Incorrect: row.SemicolonsIncorrect},
			Parentheses: model.Counter{Correct: row.ParenthesesCorrect, Incorrect: row.ParenthesesIncorrect},
			Indentation: model.Counter{Correct: row.IndentationCorrect, Incorrect: row.IndentationIncorrect},
		},
	}, nil
}
