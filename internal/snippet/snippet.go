// Package snippet extracts a few lines of source context around a
// reported line number. Display is strictly best-effort: a missing
// file is not an error, only real read failures are.
package snippet

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
)

const (
	windowSize    = 5
	leadingLines  = 2
	firstFileLine = 1
)

// Line is one line of source with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Read returns up to windowSize lines of path around line, with the
// target line third when at least two lines precede it. A nonexistent
// file yields an empty result and no error; any other I/O failure is
// returned to the caller.
func Read(path string, line int) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	start := line - leadingLines
	if start < firstFileLine {
		start = firstFileLine
	}

	var lines []Line
	scanner := bufio.NewScanner(f)
	for n := firstFileLine; scanner.Scan(); n++ {
		if n < start {
			continue
		}
		lines = append(lines, Line{Number: n, Text: scanner.Text()})
		if len(lines) == windowSize {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
