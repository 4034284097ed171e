package ngram

import "github.com/samcharles93/ngram/internal/tokenizer"

// Generate appends up to maxSteps predicted tokens to tokens and returns the
// extended sequence. It stops right after appending tokenizer.End.
func (m *Model) Generate(tokens []string, maxSteps int) []string {
	for range maxSteps {
		next := m.Predict(tokens)
		tokens = append(tokens, next)
		if next == tokenizer.End {
			break
		}
	}
	return tokens
}
