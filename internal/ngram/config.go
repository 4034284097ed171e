package ngram

import "fmt"

// Config holds the three knobs of a model. It is fixed for the lifetime of
// the model; Reset and Load only touch the table.
type Config struct {
	// ContextSize is the number of preceding tokens used to predict the next
	// one (n-1 for an n-gram model).
	ContextSize int `json:"context_size"`
	// Smoothing enables backoff to shorter contexts when the full context
	// was never observed.
	Smoothing bool `json:"smoothing"`
	// SamplingFraction is the share of top-ranked candidates Predict may
	// choose from, in (0, 1]. 1 samples from every observed continuation.
	SamplingFraction float64 `json:"sampling_fraction"`
}

// DefaultConfig is a trigram model with backoff that samples from every
// observed continuation.
func DefaultConfig() Config {
	return Config{
		ContextSize:      2,
		Smoothing:        true,
		SamplingFraction: 1,
	}
}

func (c Config) Validate() error {
	if c.ContextSize < 1 {
		return fmt.Errorf("%w: context size %d, must be at least 1", ErrInvalidConfig, c.ContextSize)
	}
	if !(c.SamplingFraction > 0 && c.SamplingFraction <= 1) {
		return fmt.Errorf("%w: sampling fraction %v, must be in (0, 1]", ErrInvalidConfig, c.SamplingFraction)
	}
	return nil
}

// Window is the n-gram size used for training: the context plus the token
// that follows it.
func (c Config) Window() int {
	return c.ContextSize + 1
}
