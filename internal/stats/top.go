package stats

import (
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// RankLanguages orders languages by practice count, then by name.
func RankLanguages(progress model.UserProgress) []model.LanguageProgress {
	out := make([]model.LanguageProgress, 0, len(progress.Languages))
	for _, lp := range progress.Languages {
		out = append(out, lp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PracticeCount == out[j].PracticeCount {
			return out[i].Language < out[j].Language
		}
		return out[i].PracticeCount > out[j].PracticeCount
	})
	return out
}

// TopLanguages returns the names of the n most practiced languages.
func TopLanguages(progress model.UserProgress, n int) []string {
	ranked := RankLanguages(progress)
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, lp := range ranked[:n] {
		out = append(out, lp.Language)
	}
	return out
}
