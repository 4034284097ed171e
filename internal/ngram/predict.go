package ngram

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samcharles93/ngram/internal/tokenizer"
)

// Candidate is a possible next token and its observed count.
type Candidate struct {
	Token string `json:"token"`
	Count uint64 `json:"count"`
}

// Predict returns the next token for the given history. Candidates from the
// resolved context are ranked by count, and one of the top
// max(1, floor(n*SamplingFraction)) is chosen uniformly. When nothing
// matches at any backoff level Predict returns tokenizer.End.
func (m *Model) Predict(tokens []string) string {
	e, ok := m.resolve(cut(tokens, m.cfg.ContextSize))
	if !ok {
		return tokenizer.End
	}
	ranked := rank(e.counts)
	k := eligible(len(ranked), m.cfg.SamplingFraction)
	i := m.chooser.Choose(k)
	if i < 0 || i >= k {
		i = 0
	}
	return strings.Clone(ranked[i].Token)
}

// Rank returns every candidate Predict would consider for tokens, best
// first, or nil when nothing matches.
func (m *Model) Rank(tokens []string) []Candidate {
	e, ok := m.resolve(cut(tokens, m.cfg.ContextSize))
	if !ok {
		return nil
	}
	return rank(e.counts)
}

// Eligible is the number of top-ranked candidates Predict samples from when
// n candidates are available.
func (m *Model) Eligible(n int) int {
	return eligible(n, m.cfg.SamplingFraction)
}

func rank(counts Counts) []Candidate {
	return counts.Ranked()
}

// Ranked orders the counts by descending count. Equal counts are ordered by
// token so that ranking does not depend on map iteration order.
func (c Counts) Ranked() []Candidate {
	out := make([]Candidate, 0, len(c))
	for tok, n := range c {
		out = append(out, Candidate{Token: tok, Count: n})
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Token, b.Token)
	})
	return out
}

func eligible(n int, fraction float64) int {
	k := int(math.Floor(float64(n) * fraction))
	return max(1, min(k, n))
}
