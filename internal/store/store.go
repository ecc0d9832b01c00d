// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/codetype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed width so that stored timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store wraps SQLite access for snippets, results and preferences.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snippets (
			id TEXT PRIMARY KEY,
			language TEXT NOT NULL,
			title TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			code TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			user TEXT NOT NULL,
			snippet_id TEXT NOT NULL,
			language TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			time_s INTEGER NOT NULL,
			chars_typed INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			code_metrics INTEGER NOT NULL,
			special_char_count INTEGER NOT NULL,
			syntax_errors INTEGER NOT NULL,
			indentation_errors INTEGER NOT NULL,
			brackets_correct INTEGER NOT NULL,
			brackets_incorrect INTEGER NOT NULL,
			semicolons_correct INTEGER NOT NULL,
			semicolons_incorrect INTEGER NOT NULL,
			parentheses_correct INTEGER NOT NULL,
			parentheses_incorrect INTEGER NOT NULL,
			indentation_correct INTEGER NOT NULL,
			indentation_incorrect INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS preferences (
			user TEXT PRIMARY KEY,
			theme TEXT NOT NULL,
			font_size INTEGER NOT NULL,
			keyboard_sounds INTEGER NOT NULL,
			show_line_numbers INTEGER NOT NULL,
			test_duration INTEGER NOT NULL,
			auto_complete INTEGER NOT NULL,
			include_comments INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language, difficulty);`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_ended_at ON results(user, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type snippetRow struct {
	ID         string `db:"id"`
	Language   string `db:"language"`
	Title      string `db:"title"`
	Difficulty string `db:"difficulty"`
	Category   string `db:"category"`
	Code       string `db:"code"`
	CreatedAt  string `db:"created_at"`
}

func toSnippetRow(sn model.Snippet) snippetRow {
	created := sn.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return snippetRow{
		ID:         sn.ID,
		Language:   sn.Language,
		Title:      sn.Title,
		Difficulty: sn.Difficulty,
		Category:   sn.Category,
		Code:       sn.Code,
		CreatedAt:  created.UTC().Format(timeLayout),
	}
}

func (r snippetRow) toModel() (model.Snippet, error) {
	created, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return model.Snippet{}, err
	}
	return model.Snippet{
		ID:         r.ID,
		Language:   r.Language,
		Title:      r.Title,
		Difficulty: r.Difficulty,
		Category:   r.Category,
		Code:       r.Code,
		CreatedAt:  created,
	}, nil
}

// UpsertSnippets inserts snippets, replacing existing ones with the same id.
func (s *Store) UpsertSnippets(ctx context.Context, snippets []model.Snippet) (int, error) {
	if len(snippets) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	const query = `INSERT INTO snippets (id, language, title, difficulty, category, code, created_at)
		VALUES (:id, :language, :title, :difficulty, :category, :code, :created_at)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			title = excluded.title,
			difficulty = excluded.difficulty,
			category = excluded.category,
			code = excluded.code`
	for _, sn := range snippets {
		if _, err = tx.NamedExecContext(ctx, query, toSnippetRow(sn)); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(snippets), nil
}

// CountSnippets returns the number of stored snippets.
func (s *Store) CountSnippets(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM snippets`); err != nil {
		return 0, err
	}
	return count, nil
}

// ListSnippets returns snippets matching filter, newest first.
func (s *Store) ListSnippets(ctx context.Context, filter model.SnippetFilter) ([]model.Snippet, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, filter.Language)
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	query := fmt.Sprintf(`SELECT id, language, title, difficulty, category, code, created_at
		FROM snippets
		WHERE %s
		ORDER BY created_at DESC, id ASC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	var rows []snippetRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	snippets := make([]model.Snippet, 0, len(rows))
	for _, row := range rows {
		sn, err := row.toModel()
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, sn)
	}
	return snippets, nil
}

// GetSnippet returns one snippet by id.
func (s *Store) GetSnippet(ctx context.Context, id string) (model.Snippet, error) {
	var row snippetRow
	err := s.db.GetContext(ctx, &row, `SELECT id, language, title, difficulty, category, code, created_at
		FROM snippets WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snippet{}, fmt.Errorf("snippet %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Snippet{}, err
	}
	return row.toModel()
}

// ListLanguages returns snippet counts per language.
func (s *Store) ListLanguages(ctx context.Context) ([]model.LanguageCount, error) {
	var counts []model.LanguageCount
	err := s.db.SelectContext(ctx, &counts, `SELECT language, COUNT(*) AS count
		FROM snippets
		GROUP BY language
		ORDER BY language ASC`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}
