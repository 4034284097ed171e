package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/samcharles93/ngram/internal/tokenizer"
)

func TestReadLines(t *testing.T) {
	t.Parallel()

	in := "first line\n\n   \n  second  line \r\nthird"
	got, err := ReadLines(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"first line", "second  line", "third"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("a b\nc d\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %q", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	seqs, skipped := Prepare([]string{"The quick fox", "Hi", "  ", "A b"}, 4)
	if skipped != 2 {
		t.Fatalf("skipped %d want 2", skipped)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences", len(seqs))
	}
	want := []string{tokenizer.Start, "The", "quick", "fox", tokenizer.End}
	if !slices.Equal(seqs[0], want) {
		t.Fatalf("got %q want %q", seqs[0], want)
	}
}

func TestTiny(t *testing.T) {
	t.Parallel()

	lines := Tiny()
	if len(lines) < 40 {
		t.Fatalf("tiny corpus has %d lines", len(lines))
	}
	seqs, skipped := Prepare(lines, 4)
	if skipped != 0 || len(seqs) != len(lines) {
		t.Fatalf("every tiny sentence should fit a 4-gram window, skipped %d", skipped)
	}
}
