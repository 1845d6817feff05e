package stanza

import (
	"bufio"
	"io"
)

// LineScanner reads a stanza-format stream line by line, keeping a line
// counter for diagnostics.  It is recreated from scratch when a source is
// rewound.
type LineScanner struct {
	scanner *bufio.Scanner
	lineno  int
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{scanner: bufio.NewScanner(r)}
}

// Lineno returns the number of the line most recently returned by Next.
func (ls *LineScanner) Lineno() int {
	return ls.lineno
}

// Next returns the next input line, without its terminator, and false at
// end of input.  I/O errors are folded into end of input: a truncated data
// file is handled by the row accounting diagnostics downstream.
func (ls *LineScanner) Next() (string, bool) {
	if !ls.scanner.Scan() {
		return "", false
	}
	ls.lineno++
	return ls.scanner.Text(), true
}

// SkipTo reads and discards lines until one matches the stanza header line
// exactly.  It returns false if the input is exhausted first.
func (ls *LineScanner) SkipTo(header string) bool {
	for {
		line, ok := ls.Next()
		if !ok {
			return false
		}
		if line == header {
			return true
		}
	}
}
