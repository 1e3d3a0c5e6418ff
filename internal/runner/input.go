package runner

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"
)

// Scanner buffer sizing. Records and relayed output lines up to maxLineBytes
// are accepted; anything longer fails the run.
const (
	initialBufBytes = 64 * 1024
	maxLineBytes    = 1024 * 1024
)

// ReadRecords drains r to EOF and returns its lines as records. Line
// terminators (\n or \r\n) are stripped and a trailing newline on the last
// line is optional. Every line must be valid UTF-8; the first line that is
// not fails the whole read with an InputError before any batch runs.
func ReadRecords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufBytes), maxLineBytes)

	var records []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if !utf8.Valid(scanner.Bytes()) {
			return nil, &InputError{Err: fmt.Errorf("%w on line %d", ErrInvalidUTF8, lineNum)}
		}
		records = append(records, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputError{Err: err}
	}

	return records, nil
}
