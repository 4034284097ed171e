package ngram

import (
	"encoding/binary"
	"maps"
	"math"
	"math/bits"
	"slices"
)

// Counts maps a next token to the number of times it was observed.
type Counts map[string]uint64

// Total is the sum of all counts, capped at math.MaxUint64.
func (c Counts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total = saturatingAdd(total, n)
	}
	return total
}

type entry struct {
	context []string
	counts  Counts
}

// Table maps contexts of a fixed length to their continuation counts.
// Entries are created with a count of 1 on first observation and only ever
// incremented, so every stored count is positive.
//
// Table is not safe for concurrent use.
type Table struct {
	size    int
	entries map[string]*entry
}

// NewTable returns an empty table for contexts of the given length.
func NewTable(contextSize int) *Table {
	return &Table{
		size:    contextSize,
		entries: make(map[string]*entry),
	}
}

// ContextSize is the length of every context stored in t.
func (t *Table) ContextSize() int {
	return t.size
}

// Len is the number of distinct contexts.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Get returns a copy of the counts stored for ctx.
func (t *Table) Get(ctx []string) (Counts, bool) {
	e, ok := t.lookup(ctx)
	if !ok {
		return nil, false
	}
	return maps.Clone(e.counts), true
}

func (t *Table) lookup(ctx []string) (*entry, bool) {
	if t == nil || len(ctx) != t.size {
		return nil, false
	}
	e, ok := t.entries[contextKey(ctx)]
	return e, ok
}

// add records n observations of next after ctx. ctx is copied when a new
// entry is created.
func (t *Table) add(ctx []string, next string, n uint64) {
	key := contextKey(ctx)
	e, ok := t.entries[key]
	if !ok {
		e = &entry{context: slices.Clone(ctx), counts: make(Counts, 1)}
		t.entries[key] = e
	}
	e.counts[next] = saturatingAdd(e.counts[next], n)
}

// saturatingAdd sums counts, sticking at the largest representable count
// instead of wrapping.
func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// Range calls fn for every context in lexical order until fn returns false.
// The slices passed to fn are copies.
func (t *Table) Range(fn func(ctx []string, counts Counts) bool) {
	for _, e := range t.sorted() {
		if !fn(slices.Clone(e.context), maps.Clone(e.counts)) {
			return
		}
	}
}

// Contexts returns every stored context in lexical order.
func (t *Table) Contexts() [][]string {
	out := make([][]string, 0, t.Len())
	t.Range(func(ctx []string, _ Counts) bool {
		out = append(out, ctx)
		return true
	})
	return out
}

// Continuations is the number of distinct (context, next) pairs.
func (t *Table) Continuations() int {
	n := 0
	for _, e := range t.entries {
		n += len(e.counts)
	}
	return n
}

// Observations is the total number of n-grams folded into t.
func (t *Table) Observations() uint64 {
	var n uint64
	for _, e := range t.entries {
		n = saturatingAdd(n, e.counts.Total())
	}
	return n
}

// Equal reports whether t and o hold the same contexts with the same counts.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	if t.size != o.size {
		return false
	}
	for key, e := range t.entries {
		oe, ok := o.entries[key]
		if !ok || !maps.Equal(e.counts, oe.counts) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := NewTable(t.size)
	for key, e := range t.entries {
		out.entries[key] = &entry{context: slices.Clone(e.context), counts: maps.Clone(e.counts)}
	}
	return out
}

func (t *Table) sorted() []*entry {
	if t == nil {
		return nil
	}
	out := make([]*entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *entry) int { return slices.Compare(a.context, b.context) })
	return out
}

// contextKey encodes a token sequence as a map key. Every token is prefixed
// with its length, so no two distinct sequences share a key whatever bytes
// the tokens contain.
func contextKey(ctx []string) string {
	n := 0
	for _, tok := range ctx {
		n += len(tok) + binary.MaxVarintLen64
	}
	b := make([]byte, 0, n)
	for _, tok := range ctx {
		b = binary.AppendUvarint(b, uint64(len(tok)))
		b = append(b, tok...)
	}
	return string(b)
}
