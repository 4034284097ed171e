// Package ngramfile implements the on-disk encoding of an n-gram frequency
// table.
//
// A document is a JSON array of two-element arrays. The first element is a
// context encoded as a single string, the second maps each observed next
// token to its count:
//
//	[
//	  ["__sos__ The", {"quick": 2, "nimble": 1}],
//	  ["The quick", {"brown": 2}]
//	]
//
// Context tokens are joined with KeyDelimiter. Whitespace tokenization never
// yields a token containing a space, so the split is exact for any table
// trained from tokenized text. Encoding fails instead of producing an
// ambiguous key when a token does contain the delimiter.
package ngramfile

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// KeyDelimiter separates context tokens inside an encoded key.
const KeyDelimiter = " "

// Pair is one table entry: an encoded context and its continuation counts.
type Pair struct {
	Key    string
	Counts map[string]uint64
}

// Document is the full persisted table.
type Document []Pair

// EncodeKey joins a context into a key.
func EncodeKey(tokens []string) (string, error) {
	for _, tok := range tokens {
		if strings.Contains(tok, KeyDelimiter) {
			return "", fmt.Errorf("%w: %q", ErrDelimiterCollision, tok)
		}
	}
	return strings.Join(tokens, KeyDelimiter), nil
}

// DecodeKey splits a key back into its tokens. The split is exact, so empty
// tokens survive the round trip.
func DecodeKey(key string) []string {
	return strings.Split(key, KeyDelimiter)
}

func (p Pair) MarshalJSON() ([]byte, error) {
	counts := p.Counts
	if counts == nil {
		counts = map[string]uint64{}
	}
	return json.Marshal([2]any{p.Key, counts})
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("pair is not an array: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("pair has %d elements, want 2", len(parts))
	}
	var key string
	if err := json.Unmarshal(parts[0], &key); err != nil {
		return fmt.Errorf("pair key: %w", err)
	}
	var counts map[string]uint64
	if err := json.Unmarshal(parts[1], &counts); err != nil {
		return fmt.Errorf("pair %q counts: %w", key, err)
	}
	// A map keeps only the last of repeated tokens, so check the raw object.
	if tok, dup, err := repeatedToken(parts[1]); err != nil {
		return fmt.Errorf("pair %q counts: %w", key, err)
	} else if dup {
		return fmt.Errorf("pair %q repeats token %q", key, tok)
	}
	p.Key = key
	p.Counts = counts
	return nil
}

// repeatedToken reports the first token that appears twice in a counts
// object. data has already decoded into a map, so it is either null or a
// flat object of numbers.
func repeatedToken(data []byte) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return "", false, err
	}
	seen := make(map[string]struct{})
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false, err
		}
		if tok == json.Delim('}') {
			return "", false, nil
		}
		name, ok := tok.(string)
		if !ok {
			return "", false, fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := seen[name]; dup {
			return name, true, nil
		}
		seen[name] = struct{}{}
		if _, err := dec.Token(); err != nil {
			return "", false, err
		}
	}
}

// Sorted returns a copy of d ordered by key.
func (d Document) Sorted() Document {
	out := slices.Clone(d)
	slices.SortFunc(out, func(a, b Pair) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Validate checks the structural rules every decoded document must satisfy:
// keys are unique, every pair has at least one continuation and every count
// is positive.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d))
	for i, p := range d {
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrMalformed, p.Key)
		}
		seen[p.Key] = struct{}{}
		if len(p.Counts) == 0 {
			return fmt.Errorf("%w: pair %d (%q) has no continuations", ErrMalformed, i, p.Key)
		}
		for tok, n := range p.Counts {
			if n == 0 {
				return fmt.Errorf("%w: pair %d (%q) has zero count for %q", ErrMalformed, i, p.Key, tok)
			}
		}
	}
	return nil
}

// ContextSize reports the number of tokens per context. An empty document
// has size 0. Mixed sizes are malformed.
func (d Document) ContextSize() (int, error) {
	size := 0
	for i, p := range d {
		n := len(DecodeKey(p.Key))
		if i == 0 {
			size = n
			continue
		}
		if n != size {
			return 0, fmt.Errorf("%w: key %q has %d tokens, earlier keys have %d", ErrMalformed, p.Key, n, size)
		}
	}
	return size, nil
}
