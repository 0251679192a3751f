package engine

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestRenderRoundTrip(t *testing.T) {
	lines := []string{
		"#######",
		"#..1..#",
		"#.###.#",
		"#..0..#",
		"#######",
	}
	grid := mustParse(t, lines)

	want := strings.Join(lines, "\n") + "\n"
	if grid.Render() != want {
		t.Errorf("Render() = %q, want %q", grid.Render(), want)
	}

	reparsed, err := Parse(grid.Lines())
	if err != nil {
		t.Fatalf("Re-parsing rendered output failed: %v", err)
	}
	if reparsed.Render() != want {
		t.Error("Expected parse -> render -> parse to be stable")
	}
}

func TestLinesMatchDimensions(t *testing.T) {
	grid := mustParse(t, []string{"#.#", "#.#"})

	lines := grid.Lines()
	if len(lines) != grid.Rows() {
		t.Fatalf("Expected %d lines, got %d", grid.Rows(), len(lines))
	}
	for i, line := range lines {
		if len(line) != grid.Cols() {
			t.Errorf("Line %d has length %d, want %d", i, len(line), grid.Cols())
		}
	}
}

func TestWriteTo(t *testing.T) {
	grid := mustParse(t, []string{"#1#"})

	var buf bytes.Buffer
	n, err := grid.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer has %d", n, buf.Len())
	}
	if buf.String() != "#1#\n" {
		t.Errorf("WriteTo wrote %q", buf.String())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	grid := mustParse(t, []string{"1.."})
	clone := grid.Clone()

	if err := grid.MovePlayer('1', "right"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if clone.Render() != "1..\n" {
		t.Error("Expected clone to be unaffected by moves on the original")
	}
	if !reflect.DeepEqual(clone.Lines(), []string{"1.."}) {
		t.Errorf("Clone lines changed: %v", clone.Lines())
	}
}
