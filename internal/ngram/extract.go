package ngram

import "fmt"

// NGram is a context and the token observed right after it.
type NGram struct {
	Context []string
	Next    string
}

// Extract slides a window of the given size over tokens and returns every
// (context, next) pair in order. The context is the first window-1 tokens of
// each window, so Extract([Eat tasty cakes], 2) yields ([Eat], tasty) and
// ([tasty], cakes).
//
// A sequence shorter than the window is an error rather than an empty result.
func Extract(tokens []string, window int) ([]NGram, error) {
	if err := checkWindow(tokens, window); err != nil {
		return nil, err
	}
	out := make([]NGram, 0, len(tokens)-window+1)
	for i := 0; i+window <= len(tokens); i++ {
		ctx := make([]string, window-1)
		copy(ctx, tokens[i:i+window-1])
		out = append(out, NGram{Context: ctx, Next: tokens[i+window-1]})
	}
	return out, nil
}

func checkWindow(tokens []string, window int) error {
	if window < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	if len(tokens) < window {
		return fmt.Errorf("%w: %d tokens, window %d", ErrSequenceTooShort, len(tokens), window)
	}
	return nil
}
