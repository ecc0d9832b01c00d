package snippet

import (
	"math/rand"
	"strings"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

// Picker chooses snippets at random.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker using rnd.
func NewPicker(rnd *rand.Rand) *Picker {
	return &Picker{rnd: rnd}
}

// Pick selects one snippet uniformly.
func (p *Picker) Pick(snippets []model.Snippet) model.Snippet {
	return snippets[p.rnd.Intn(len(snippets))]
}

// PickWeighted selects a snippet with a bias toward code that exercises the
// weak buckets. Each snippet weighs 1 + factor*occurrences.
func (p *Picker) PickWeighted(snippets []model.Snippet, weak []string, factor float64) model.Snippet {
	if len(weak) == 0 || factor <= 0 {
		return p.Pick(snippets)
	}
	weights := make([]float64, len(snippets))
	total := 0.0
	for i, sn := range snippets {
		w := 1.0 + float64(BucketOccurrences(sn.Code, weak))*factor
		weights[i] = w
		total += w
	}

	r := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return snippets[i]
		}
	}
	return snippets[len(snippets)-1]
}

// BucketOccurrences counts how often code exercises the given buckets.
// Indentation counts indented lines; the other buckets count characters.
func BucketOccurrences(code string, buckets []string) int {
	want := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		want[b] = struct{}{}
	}
	count := 0
	for _, r := range code {
		class := scorer.Classify(r)
		if class == scorer.ClassNone {
			continue
		}
		if _, ok := want[class.String()]; ok {
			count++
		}
	}
	if _, ok := want[scorer.BucketIndentation]; ok {
		for _, line := range strings.Split(code, "\n") {
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				count++
			}
		}
	}
	return count
}
