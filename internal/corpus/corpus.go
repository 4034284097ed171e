// Package corpus loads raw training text and turns it into sentinel-marked
// token sequences.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samcharles93/ngram/internal/tokenizer"
)

const maxLineSize = 1 << 20

// ReadLines returns the non-blank lines of r, trimmed. Each line is one
// training sequence.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read: %w", err)
	}
	return lines, nil
}

// ReadFile reads the lines of the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadLines(f)
}

// Prepare tokenizes and marks each line. Sequences shorter than window
// cannot produce an n-gram and are dropped, as are blank lines; skipped
// reports how many.
func Prepare(lines []string, window int) (seqs [][]string, skipped int) {
	seqs = make([][]string, 0, len(lines))
	for _, line := range lines {
		words := tokenizer.Tokenize(line)
		tokens := tokenizer.Mark(words)
		if len(words) == 0 || len(tokens) < window {
			skipped++
			continue
		}
		seqs = append(seqs, tokens)
	}
	return seqs, skipped
}
