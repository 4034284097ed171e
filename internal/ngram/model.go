// Package ngram implements a count-based n-gram language model with discrete
// backoff and top-fraction sampling.
//
// A Model is trained on token sequences that already carry start and end
// sentinels (see the tokenizer package), predicts the next token for an
// arbitrary history, and can be saved to and loaded from the ngramfile
// format.
//
// A Model is not safe for concurrent use. Even Predict mutates the state of
// the default Chooser.
package ngram

import (
	"fmt"
	"time"

	"github.com/samcharles93/ngram/internal/logger"
)

// Model is an n-gram language model.
type Model struct {
	cfg   Config
	table *Table
	// backoff[k] aggregates the table by the last k context tokens. It is
	// derived from table, only kept when smoothing is enabled and never
	// persisted.
	backoff []*Table
	chooser Chooser
	log     logger.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithChooser sets the random source used by Predict.
func WithChooser(c Chooser) Option {
	return func(m *Model) {
		if c != nil {
			m.chooser = c
		}
	}
}

// WithSeed seeds the default random source. Negative seeds use the clock.
func WithSeed(seed int64) Option {
	return func(m *Model) {
		m.chooser = NewRandChooser(seed)
	}
}

func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns an empty model.
func New(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:   cfg,
		table: NewTable(cfg.ContextSize),
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.chooser == nil {
		m.chooser = NewRandChooser(-1)
	}
	m.backoff = newBackoff(cfg)
	return m, nil
}

func (m *Model) Config() Config {
	return m.cfg
}

// Table returns a copy of the frequency table.
func (m *Model) Table() *Table {
	return m.table.Clone()
}

// Train folds every sequence of the corpus into the table. Sequences must
// already be marked with sentinels and hold at least ContextSize+1 tokens;
// if any does not, Train returns ErrSequenceTooShort and the model is left
// untouched. Counts accumulate across calls.
func (m *Model) Train(corpus [][]string) error {
	window := m.cfg.Window()
	for i, seq := range corpus {
		if err := checkWindow(seq, window); err != nil {
			return fmt.Errorf("ngram: train sequence %d: %w", i, err)
		}
	}

	start := time.Now()
	var grams int
	for _, seq := range corpus {
		ngrams, err := Extract(seq, window)
		if err != nil {
			return err
		}
		for _, g := range ngrams {
			m.observe(g.Context, g.Next, 1)
		}
		grams += len(ngrams)
	}
	m.log.Debug("trained",
		"sequences", len(corpus),
		"ngrams", grams,
		"contexts", m.table.Len(),
		"took", time.Since(start),
	)
	return nil
}

// Reset drops every learned count. The configuration is kept.
func (m *Model) Reset() {
	m.table = NewTable(m.cfg.ContextSize)
	m.backoff = newBackoff(m.cfg)
}

// Stats summarises the table.
type Stats struct {
	ContextSize   int    `json:"context_size"`
	Contexts      int    `json:"contexts"`
	Continuations int    `json:"continuations"`
	Observations  uint64 `json:"observations"`
}

func (m *Model) Stats() Stats {
	return Stats{
		ContextSize:   m.cfg.ContextSize,
		Contexts:      m.table.Len(),
		Continuations: m.table.Continuations(),
		Observations:  m.table.Observations(),
	}
}

func (m *Model) observe(ctx []string, next string, n uint64) {
	m.table.add(ctx, next, n)
	m.indexBackoff(ctx, next, n)
}

func (m *Model) indexBackoff(ctx []string, next string, n uint64) {
	for k, level := range m.backoff {
		level.add(ctx[len(ctx)-k:], next, n)
	}
}

func newBackoff(cfg Config) []*Table {
	if !cfg.Smoothing {
		return nil
	}
	levels := make([]*Table, cfg.ContextSize)
	for k := range levels {
		levels[k] = NewTable(k)
	}
	return levels
}
