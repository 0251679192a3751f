package engine

import (
	"io"
	"strings"
)

// Render returns the grid's textual form: one line per row in storage order,
// each exactly Cols characters, each followed by a newline.
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for _, row := range g.cells {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines returns the grid rows as strings, without line terminators.
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	for i, row := range g.cells {
		lines[i] = string(row)
	}
	return lines
}

// WriteTo writes the rendered grid to w.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.Render())
	return int64(n), err
}
