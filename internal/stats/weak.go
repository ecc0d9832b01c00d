package stats

import (
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

// ClassRow is one special-character bucket with its accuracy.
type ClassRow struct {
	Bucket    string
	Correct   int
	Incorrect int
	Accuracy  float64
}

// SumClasses adds up the special-character counters of records.
func SumClasses(records []model.ProgressRecord) model.ClassAggregate {
	var agg model.ClassAggregate
	for _, rec := range records {
		agg.Sessions++
		addCounter(&agg.Brackets, rec.Special.Brackets)
		addCounter(&agg.Semicolons, rec.Special.Semicolons)
		addCounter(&agg.Parentheses, rec.Special.Parentheses)
		addCounter(&agg.Indentation, rec.Special.Indentation)
	}
	return agg
}

func addCounter(dst *model.Counter, src model.Counter) {
	dst.Correct += src.Correct
	dst.Incorrect += src.Incorrect
}

// ClassRows lists every bucket in display order.
func ClassRows(stats model.SpecialCharStats) []ClassRow {
	rows := make([]ClassRow, 0, len(scorer.Buckets))
	for _, bucket := range scorer.Buckets {
		c, _ := scorer.BucketCounter(stats, bucket)
		rows = append(rows, ClassRow{
			Bucket:    bucket,
			Correct:   c.Correct,
			Incorrect: c.Incorrect,
			Accuracy:  counterAccuracy(c),
		})
	}
	return rows
}

// CommonErrors returns the buckets with mistakes, most mistakes first.
func CommonErrors(stats model.SpecialCharStats) []string {
	rows := ClassRows(stats)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Incorrect > rows[j].Incorrect
	})
	var out []string
	for _, r := range rows {
		if r.Incorrect == 0 {
			break
		}
		out = append(out, r.Bucket)
	}
	return out
}

// SelectWeakBuckets selects up to top buckets with the lowest accuracy.
// Buckets without mistakes are never weak.
func SelectWeakBuckets(stats model.SpecialCharStats, top int) []string {
	rows := ClassRows(stats)
	candidates := rows[:0]
	for _, r := range rows {
		if r.Incorrect > 0 {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Accuracy < candidates[j].Accuracy
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for _, r := range candidates[:top] {
		out = append(out, r.Bucket)
	}
	return out
}

func counterAccuracy(c model.Counter) float64 {
	total := c.Correct + c.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(c.Correct) / float64(total)
}
