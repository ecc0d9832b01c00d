package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/prefs"
)

type preferencesRow struct {
	User            string `db:"user"`
	Theme           string `db:"theme"`
	FontSize        int    `db:"font_size"`
	KeyboardSounds  bool   `db:"keyboard_sounds"`
	ShowLineNumbers bool   `db:"show_line_numbers"`
	TestDuration    int    `db:"test_duration"`
	AutoComplete    bool   `db:"auto_complete"`
	IncludeComments bool   `db:"include_comments"`
	UpdatedAt       string `db:"updated_at"`
}

// GetPreferences returns the stored preferences of user. The boolean is
// false when nothing is stored; defaults are returned in that case.
func (s *Store) GetPreferences(ctx context.Context, user string) (model.Preferences, bool, error) {
	var row preferencesRow
	err := s.db.GetContext(ctx, &row, `SELECT user, theme, font_size, keyboard_sounds, show_line_numbers,
		test_duration, auto_complete, include_comments, updated_at
		FROM preferences WHERE user = ?`, user)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.Defaults(), false, nil
	}
	if err != nil {
		return model.Preferences{}, false, err
	}
	return model.Preferences{
		Theme:           row.Theme,
		FontSize:        prefs.FontSizeFromPoints(row.FontSize),
		KeyboardSounds:  row.KeyboardSounds,
		ShowLineNumbers: row.ShowLineNumbers,
		TestDuration:    row.TestDuration,
		AutoComplete:    row.AutoComplete,
		IncludeComments: row.IncludeComments,
	}, true, nil
}

// SavePreferences validates and upserts the preferences of user.
func (s *Store) SavePreferences(ctx context.Context, user string, p model.Preferences) error {
	if err := prefs.Validate(p); err != nil {
		return err
	}
	row := preferencesRow{
		User:            user,
		Theme:           p.Theme,
		FontSize:        prefs.FontSizePoints(p.FontSize),
		KeyboardSounds:  p.KeyboardSounds,
		ShowLineNumbers: p.ShowLineNumbers,
		TestDuration:    p.TestDuration,
		AutoComplete:    p.AutoComplete,
		IncludeComments: p.IncludeComments,
		UpdatedAt:       time.Now().UTC().Format(timeLayout),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO preferences (
			user, theme, font_size, keyboard_sounds, show_line_numbers,
			test_duration, auto_complete, include_comments, updated_at
		) VALUES (
			:user, :theme, :font_size, :keyboard_sounds, :show_line_numbers,
			:test_duration, :auto_complete, :include_comments, :updated_at
		)
		ON CONFLICT(user) DO UPDATE SET
			theme = excluded.theme,
			font_size = excluded.font_size,
			keyboard_sounds = excluded.keyboard_sounds,
			show_line_numbers = excluded.show_line_numbers,
			test_duration = excluded.test_duration,
			auto_complete = excluded.auto_complete,
			include_comments = excluded.include_comments,
			updated_at = excluded.updated_at`, row)
	return err
}
