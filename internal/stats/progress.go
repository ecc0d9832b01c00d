package stats

import (
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// BuildProgress derives per-language and overall progress from records.
// now anchors the practice streak.
func BuildProgress(records []model.ProgressRecord, now time.Time) model.UserProgress {
	progress := model.UserProgress{Languages: map[string]model.LanguageProgress{}}
	byLang := map[string][]model.ProgressRecord{}
	for _, rec := range records {
		byLang[rec.Language] = append(byLang[rec.Language], rec)
		if rec.EndedAt.After(progress.LastPracticed) {
			progress.LastPracticed = rec.EndedAt
		}
		progress.TotalPracticeTime += rec.Result.Time
	}
	progress.CompletedSnippets = len(records)
	progress.Streak = Streak(records, now)

	for lang, recs := range byLang {
		summary := Summarize(recs)
		lp := model.LanguageProgress{
			Language:        lang,
			AverageWPM:      summary.AvgWPM,
			AverageAccuracy: summary.AvgAccuracy,
			PracticeCount:   len(recs),
			BestWPM:         summary.BestWPM,
			CommonErrors:    CommonErrors(SumClasses(recs).SpecialCharStats),
		}
		for _, rec := range recs {
			if rec.EndedAt.After(lp.LastPracticed) {
				lp.LastPracticed = rec.EndedAt
			}
		}
		progress.Languages[lang] = lp
	}
	return progress
}

// Streak counts consecutive local calendar days with practice, ending today
// or yesterday.
func Streak(records []model.ProgressRecord, now time.Time) int {
	days := map[time.Time]struct{}{}
	for _, rec := range records {
		days[dayOf(rec.EndedAt.In(now.Location()))] = struct{}{}
	}
	day := dayOf(now)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
