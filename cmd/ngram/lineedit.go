package main

import (
	"bufio"
	"os"
)

var stdinReader = bufio.NewReader(os.Stdin)

// readPlainLine reads one line from stdin without any editing support. A
// final line without a newline is returned together with io.EOF only when
// it is empty.
func readPlainLine() (string, error) {
	s, err := stdinReader.ReadString('\n')
	if err != nil && s == "" {
		return "", err
	}
	return trimTrailingNewline(s), nil
}

func trimTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
