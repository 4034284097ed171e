package ngram

import (
	"math/rand"
	"time"
)

// Chooser picks an index uniformly from [0, n). n is always at least 1.
type Chooser interface {
	Choose(n int) int
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(n int) int

func (f ChooserFunc) Choose(n int) int { return f(n) }

type randChooser struct {
	rng *rand.Rand
}

// NewRandChooser returns a Chooser backed by a seeded math/rand source. A
// negative seed seeds from the clock.
func NewRandChooser(seed int64) Chooser {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return &randChooser{rng: rand.New(rand.NewSource(seed))}
}

func (c *randChooser) Choose(n int) int {
	return c.rng.Intn(n)
}
