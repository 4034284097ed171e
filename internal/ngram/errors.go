package ngram

import "errors"

var (
	ErrInvalidConfig = errors.New("ngram: invalid config")
	ErrInvalidWindow = errors.New("ngram: window size must be at least 1")
	// ErrSequenceTooShort reports a token sequence with fewer tokens than the
	// n-gram window. Callers are expected to filter these out before training.
	ErrSequenceTooShort = errors.New("ngram: sequence shorter than window")
	// ErrContextSizeMismatch reports persisted contexts whose length differs
	// from the model's configured context size.
	ErrContextSizeMismatch = errors.New("ngram: context size mismatch")
)
