//go:build linux

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var promptHistory []string

// lineEditor is a minimal raw-mode line editor: cursor movement, word
// deletion and prompt history.
type lineEditor struct {
	prompt  string
	out     io.Writer
	line    []byte
	cursor  int
	histPos int
	draft   string
}

func readInteractiveLine(prompt string) (string, error) {
	if !stdinIsTTY() {
		return readPlainLine()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return "", err
	}
	raw := *oldState
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, oldState)
	}()

	ed := &lineEditor{prompt: prompt, out: os.Stderr, histPos: len(promptHistory)}
	return ed.run(os.Stdin)
}

func (ed *lineEditor) run(in io.Reader) (string, error) {
	_, _ = fmt.Fprint(ed.out, ed.prompt)

	var (
		buf [16]byte
		esc int
		seq strings.Builder
	)
	for {
		n, err := in.Read(buf[:])
		if err != nil {
			return "", err
		}
		for _, b := range buf[:n] {
			switch esc {
			case 1:
				esc = 0
				switch b {
				case '[':
					esc = 2
					seq.Reset()
				case 'b', 'B':
					ed.wordLeft()
				case 'f', 'F':
					ed.wordRight()
				case 127:
					ed.deleteWordBack()
				}
				continue
			case 2:
				seq.WriteByte(b)
				if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
					ed.csi(seq.String())
					esc = 0
				}
				continue
			}

			switch b {
			case 27: // ESC
				esc = 1
			case '\r', '\n':
				_, _ = fmt.Fprint(ed.out, "\r\n")
				out := string(ed.line)
				if strings.TrimSpace(out) != "" {
					promptHistory = append(promptHistory, out)
				}
				return out, nil
			case 3: // Ctrl+C
				_, _ = fmt.Fprint(ed.out, "^C\r\n")
				return "", io.EOF
			case 4: // Ctrl+D
				if len(ed.line) == 0 {
					_, _ = fmt.Fprint(ed.out, "\r\n")
					return "", io.EOF
				}
			case 127, 8:
				if ed.cursor > 0 {
					ed.line = append(ed.line[:ed.cursor-1], ed.line[ed.cursor:]...)
					ed.cursor--
					ed.redraw()
				}
			case 1: // Ctrl+A
				ed.cursor = 0
				ed.redraw()
			case 5: // Ctrl+E
				ed.cursor = len(ed.line)
				ed.redraw()
			case 23: // Ctrl+W
				ed.deleteWordBack()
			default:
				if b >= 32 {
					ed.insert(b)
				}
			}
		}
	}
}

func (ed *lineEditor) csi(seq string) {
	switch seq {
	case "A":
		ed.history(-1)
	case "B":
		ed.history(1)
	case "D":
		if ed.cursor > 0 {
			ed.cursor--
			ed.redraw()
		}
	case "C":
		if ed.cursor < len(ed.line) {
			ed.cursor++
			ed.redraw()
		}
	case "H":
		ed.cursor = 0
		ed.redraw()
	case "F":
		ed.cursor = len(ed.line)
		ed.redraw()
	case "3~":
		if ed.cursor < len(ed.line) {
			ed.line = append(ed.line[:ed.cursor], ed.line[ed.cursor+1:]...)
			ed.redraw()
		}
	case "1;5D", "5D":
		ed.wordLeft()
	case "1;5C", "5C":
		ed.wordRight()
	}
}

func (ed *lineEditor) insert(b byte) {
	ed.line = append(ed.line, 0)
	copy(ed.line[ed.cursor+1:], ed.line[ed.cursor:])
	ed.line[ed.cursor] = b
	ed.cursor++
	ed.redraw()
}

// history moves through earlier prompts; step is -1 for older, 1 for newer.
// Leaving the end of the history restores the line being typed.
func (ed *lineEditor) history(step int) {
	next := ed.histPos + step
	if next < 0 || next > len(promptHistory) {
		return
	}
	if ed.histPos == len(promptHistory) {
		ed.draft = string(ed.line)
	}
	ed.histPos = next
	if next == len(promptHistory) {
		ed.line = append(ed.line[:0], ed.draft...)
	} else {
		ed.line = append(ed.line[:0], promptHistory[next]...)
	}
	ed.cursor = len(ed.line)
	ed.redraw()
}

func (ed *lineEditor) wordLeft() {
	ed.cursor = wordStart(ed.line, ed.cursor)
	ed.redraw()
}

func (ed *lineEditor) wordRight() {
	i := ed.cursor
	for i < len(ed.line) && ed.line[i] == ' ' {
		i++
	}
	for i < len(ed.line) && ed.line[i] != ' ' {
		i++
	}
	ed.cursor = i
	ed.redraw()
}

func (ed *lineEditor) deleteWordBack() {
	start := wordStart(ed.line, ed.cursor)
	ed.line = append(ed.line[:start], ed.line[ed.cursor:]...)
	ed.cursor = start
	ed.redraw()
}

func (ed *lineEditor) redraw() {
	_, _ = fmt.Fprintf(ed.out, "\r%s%s\x1b[K", ed.prompt, ed.line)
	if ed.cursor < len(ed.line) {
		_, _ = fmt.Fprintf(ed.out, "\r%s%s", ed.prompt, ed.line[:ed.cursor])
	}
}

// wordStart returns the index of the start of the word before pos,
// skipping any spaces directly before it.
func wordStart(line []byte, pos int) int {
	for pos > 0 && line[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && line[pos-1] != ' ' {
		pos--
	}
	return pos
}
