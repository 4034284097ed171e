//go:build !linux

package main

import (
	"fmt"
	"os"
)

func readInteractiveLine(prompt string) (string, error) {
	if stdinIsTTY() {
		_, _ = fmt.Fprint(os.Stderr, prompt)
	}
	return readPlainLine()
}
