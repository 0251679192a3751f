package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse builds a Grid from raw map lines. Blank lines are skipped; the first
// non-blank line fixes the column count for the whole map. Lines are expected
// to have line endings already stripped.
func Parse(lines []string) (*Grid, error) {
	var cells [][]byte
	cols := 0

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		if len(cells) == 0 {
			cols = len(line)
			if cols < 1 || cols > MaxDim {
				return nil, fmt.Errorf("%w: width must be between 1 and %d, got %d", ErrInvalidMap, MaxDim, cols)
			}
		} else if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidMap, len(cells)+1, len(line), cols)
		}

		for j := 0; j < len(line); j++ {
			if !isMapChar(line[j]) {
				return nil, fmt.Errorf("%w: invalid character %q at row %d, col %d", ErrInvalidMap, line[j], len(cells)+1, j+1)
			}
		}

		if len(cells) >= MaxDim {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidMap, MaxDim)
		}
		cells = append(cells, []byte(line))
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: map has no rows", ErrInvalidMap)
	}

	return &Grid{rows: len(cells), cols: cols, cells: cells}, nil
}

// Load reads map lines from r and parses them into a Grid. Read failures are
// reported as ErrMapNotFound to distinguish source problems from structural
// invalidity.
func Load(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// A line too long for the scanner buffer is a structural problem,
		// not a missing source: any row past the width cap is invalid.
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: line longer than %d characters", ErrInvalidMap, MaxDim)
		}
		return nil, fmt.Errorf("%w: %v", ErrMapNotFound, err)
	}
	return Parse(lines)
}

// LoadFile opens and parses a map file.
func LoadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, path)
	}
	defer f.Close()

	return Load(f)
}
