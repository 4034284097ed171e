package ngram

import (
	"maps"
	"slices"
)

// Match is the result of a backoff lookup: the context that matched, which
// may be shorter than the one asked for, and its counts.
type Match struct {
	Context []string
	Counts  Counts
}

// Resolve finds the counts used to predict what follows tokens. Only the
// last ContextSize tokens are considered. The full context is looked up
// first; with smoothing enabled the oldest token is dropped and the lookup
// repeated until something matches or the context is empty. The first level
// that matches decides the result.
//
// Shorter levels see the counts of every stored context ending with the
// probe, so the empty context holds the distribution of all observed tokens.
func (m *Model) Resolve(tokens []string) (Match, bool) {
	e, ok := m.resolve(cut(tokens, m.cfg.ContextSize))
	if !ok {
		return Match{}, false
	}
	return Match{Context: slices.Clone(e.context), Counts: maps.Clone(e.counts)}, true
}

func (m *Model) resolve(ctx []string) (*entry, bool) {
	for start := 0; start <= len(ctx); start++ {
		probe := ctx[start:]
		if e, ok := m.level(len(probe)).lookup(probe); ok {
			return e, true
		}
		if !m.cfg.Smoothing {
			break
		}
	}
	return nil, false
}

// level returns the table holding contexts of length k, or nil when there is
// none.
func (m *Model) level(k int) *Table {
	if k == m.cfg.ContextSize {
		return m.table
	}
	if k < len(m.backoff) {
		return m.backoff[k]
	}
	return nil
}

// cut keeps at most the n most recent tokens.
func cut(tokens []string, n int) []string {
	if len(tokens) <= n {
		return tokens
	}
	return tokens[len(tokens)-n:]
}
