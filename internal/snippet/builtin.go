package snippet

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/verte-zerg/codetype/internal/model"
)

//go:embed builtin.yaml
var builtinPack []byte

// Builtin returns the snippets shipped with the binary.
func Builtin(indentUnit string) ([]model.Snippet, error) {
	return ParsePack(builtinPack, indentUnit)
}

// Store is the persistence the snippet library needs.
type Store interface {
	Source
	CountSnippets(ctx context.Context) (int, error)
	UpsertSnippets(ctx context.Context, snippets []model.Snippet) (int, error)
}

// Seed stores the builtin pack when the store has no snippets yet, or
// always when force is set. It returns the number of snippets written.
func Seed(ctx context.Context, st Store, indentUnit string, force bool) (int, error) {
	if !force {
		count, err := st.CountSnippets(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count snippets: %w", err)
		}
		if count > 0 {
			return 0, nil
		}
	}
	snippets, err := Builtin(indentUnit)
	if err != nil {
		return 0, err
	}
	n, err := st.UpsertSnippets(ctx, snippets)
	if err != nil {
		return 0, fmt.Errorf("failed to seed snippets: %w", err)
	}
	return n, nil
}

// Import loads snippets from path and stores them.
func Import(ctx context.Context, st Store, path, indentUnit string) ([]model.Snippet, error) {
	snippets, err := Load(path, indentUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to load snippets: %w", err)
	}
	if _, err := st.UpsertSnippets(ctx, snippets); err != nil {
		return nil, fmt.Errorf("failed to store snippets: %w", err)
	}
	return snippets, nil
}
