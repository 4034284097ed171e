// Package tokenizer turns raw text into the token sequences the n-gram model
// trains on and predicts from.
package tokenizer

import "strings"

// Sentinel tokens marking sequence boundaries.
const (
	Start = "__sos__"
	End   = "__eos__"
)

// Tokenize splits text on runs of whitespace. No case folding or punctuation
// handling is done; "dog." and "dog" are distinct tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// AddStart returns a new sequence with Start prepended.
func AddStart(tokens []string) []string {
	out := make([]string, 0, len(tokens)+1)
	out = append(out, Start)
	return append(out, tokens...)
}

// AddEnd returns a new sequence with End appended.
func AddEnd(tokens []string) []string {
	out := make([]string, 0, len(tokens)+1)
	out = append(out, tokens...)
	return append(out, End)
}

// Mark wraps tokens in both sentinels, which is the shape training expects.
func Mark(tokens []string) []string {
	out := make([]string, 0, len(tokens)+2)
	out = append(out, Start)
	out = append(out, tokens...)
	return append(out, End)
}

func IsSentinel(tok string) bool {
	return tok == Start || tok == End
}

// Detokenize joins tokens with single spaces, leaving out sentinels.
func Detokenize(tokens []string) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if IsSentinel(tok) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}
