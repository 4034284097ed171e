package ngram

import (
	"errors"
	"slices"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	got, err := Extract([]string{"Eat", "tasty", "cakes"}, 2)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []NGram{
		{Context: []string{"Eat"}, Next: "tasty"},
		{Context: []string{"tasty"}, Next: "cakes"},
	}
	if !slices.EqualFunc(got, want, equalNGram) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestExtractWindowSizes(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c", "d"}

	unigrams, err := Extract(tokens, 1)
	if err != nil {
		t.Fatalf("window 1: %v", err)
	}
	if len(unigrams) != 4 || len(unigrams[0].Context) != 0 || unigrams[3].Next != "d" {
		t.Fatalf("window 1: unexpected %+v", unigrams)
	}

	whole, err := Extract(tokens, 4)
	if err != nil {
		t.Fatalf("window 4: %v", err)
	}
	want := []NGram{{Context: []string{"a", "b", "c"}, Next: "d"}}
	if !slices.EqualFunc(whole, want, equalNGram) {
		t.Fatalf("window 4: got %+v", whole)
	}
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	if _, err := Extract([]string{"a"}, 2); !errors.Is(err, ErrSequenceTooShort) {
		t.Fatalf("expected ErrSequenceTooShort, got %v", err)
	}
	if _, err := Extract(nil, 1); !errors.Is(err, ErrSequenceTooShort) {
		t.Fatalf("expected ErrSequenceTooShort for empty input, got %v", err)
	}
	if _, err := Extract([]string{"a"}, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestExtractCopiesContext(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c"}
	grams, err := Extract(tokens, 2)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	grams[0].Context[0] = "changed"
	if tokens[0] != "a" {
		t.Fatal("context aliases the input slice")
	}
}

func equalNGram(a, b NGram) bool {
	return a.Next == b.Next && slices.Equal(a.Context, b.Context)
}
