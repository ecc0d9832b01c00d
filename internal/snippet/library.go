package snippet

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// ErrNoSnippets is returned when no snippet matches a request.
var ErrNoSnippets = errors.New("no snippets available")

// recentLimit bounds the candidates to the newest matching snippets.
const recentLimit = 10

// Source lists stored snippets.
type Source interface {
	ListSnippets(ctx context.Context, filter model.SnippetFilter) ([]model.Snippet, error)
}

// Request describes the snippet wanted next.
type Request struct {
	Language   string
	Difficulty string
	// Weak buckets bias the choice toward snippets that exercise them.
	Weak       []string
	WeakFactor float64
	// ExcludeID avoids repeating the current snippet when alternatives exist.
	ExcludeID  string
}

// Library picks practice snippets from a source through a cache.
type Library struct {
	src    Source
	cache  *Cache
	picker *Picker
}

// NewLibrary returns a Library. A nil cache gets a default one and a nil
// rnd is seeded with the current time.
func NewLibrary(src Source, cache *Cache, rnd *rand.Rand) *Library {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL, nil)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Library{src: src, cache: cache, picker: NewPicker(rnd)}
}

// Candidates returns the newest snippets for language and difficulty.
func (l *Library) Candidates(ctx context.Context, language, difficulty string) ([]model.Snippet, error) {
	language = NormalizeLanguage(language)
	key := cacheKey(language, difficulty)
	if cached, ok := l.cache.Get(key); ok {
		return cached, nil
	}
	snippets, err := l.src.ListSnippets(ctx, model.SnippetFilter{
		Language:   language,
		Difficulty: difficulty,
		Limit:      recentLimit,
	})
	if err != nil {
		return nil, err
	}
	l.cache.Put(key, snippets)
	return snippets, nil
}

// Next picks a snippet for req.
func (l *Library) Next(ctx context.Context, req Request) (model.Snippet, error) {
	candidates, err := l.Candidates(ctx, req.Language, req.Difficulty)
	if err != nil {
		return model.Snippet{}, err
	}
	if req.ExcludeID != "" && len(candidates) > 1 {
		filtered := make([]model.Snippet, 0, len(candidates))
		for _, sn := range candidates {
			if sn.ID != req.ExcludeID {
				filtered = append(filtered, sn)
			}
		}
		candidates = filtered
	}
	if len(candidates) == 0 {
		return model.Snippet{}, ErrNoSnippets
	}
	return l.picker.PickWeighted(candidates, req.Weak, req.WeakFactor), nil
}

// Invalidate forgets cached listings for language, or all when empty.
func (l *Library) Invalidate(language string) {
	if language == "" {
		l.cache.Clear()
		return
	}
	l.cache.Invalidate(NormalizeLanguage(language))
}
