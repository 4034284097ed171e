//go:build linux

package main

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func editLine(t *testing.T, input string) string {
	t.Helper()
	ed := &lineEditor{prompt: "> ", out: io.Discard, histPos: len(promptHistory)}
	got, err := ed.run(strings.NewReader(input))
	if err != nil {
		t.Fatalf("run(%q): %v", input, err)
	}
	return got
}

func TestLineEditorEditing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "the cat\r", "the cat"},
		{"backspace", "cart\x7f\x7fat\r", "caat"},
		{"insert after cursor left", "ct\x1b[Da\r", "cat"},
		{"home then type", "cat\x01the \r", "the cat"},
		{"ctrl-w deletes word", "the lazy \x17dog\r", "the dog"},
		{"delete under cursor", "cat\x01\x1b[3~\r", "at"},
	}
	for _, tc := range tests {
		if got := editLine(t, tc.input); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestLineEditorHistory(t *testing.T) {
	prev := promptHistory
	promptHistory = nil
	defer func() { promptHistory = prev }()

	editLine(t, "first\r")
	editLine(t, "second\r")

	if got := editLine(t, "\x1b[A\x1b[A\r"); got != "first" {
		t.Fatalf("two steps back: got %q want first", got)
	}
	if got := editLine(t, "draft\x1b[A\x1b[B\r"); got != "draft" {
		t.Fatalf("returning from history should restore the draft, got %q", got)
	}
}

func TestLineEditorEOF(t *testing.T) {
	ed := &lineEditor{prompt: "> ", out: io.Discard}
	if _, err := ed.run(strings.NewReader("\x04")); !errors.Is(err, io.EOF) {
		t.Fatalf("ctrl-d on an empty line: got %v want io.EOF", err)
	}
	if _, err := ed.run(strings.NewReader("abc")); !errors.Is(err, io.EOF) {
		t.Fatalf("input ending without a newline: got %v want io.EOF", err)
	}
}

func TestWordStart(t *testing.T) {
	line := []byte("one two  three")
	tests := []struct {
		pos  int
		want int
	}{
		{len(line), 9},
		{9, 4},
		{3, 0},
		{0, 0},
	}
	for _, tc := range tests {
		if got := wordStart(line, tc.pos); got != tc.want {
			t.Errorf("wordStart(%d): got %d want %d", tc.pos, got, tc.want)
		}
	}
}
