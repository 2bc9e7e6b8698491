package dumpfilter

import (
	"bufio"
	"io"
	"strings"
)

// readLine returns the next line's content (without its terminator) and the
// terminator bytes themselves ("\n", "\r\n", or "" for a final line with no
// trailing newline), so the caller can reproduce the input's exact line
// terminators on output. It reports io.EOF once the stream is exhausted.
func readLine(r *bufio.Reader) (content, terminator string, err error) {
	s, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if s == "" {
				return "", "", io.EOF
			}
			return s, "", nil
		}
		return "", "", err
	}
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2], "\r\n", nil
	}
	return s[:len(s)-1], "\n", nil
}
