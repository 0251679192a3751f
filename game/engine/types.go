package engine

// Cell values and validation constants.
const (
	Wall  byte = '#'
	Floor byte = '.'

	// MaxDim caps both grid dimensions.
	MaxDim = 100
)

// Position is a 0-based (row, column) grid coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a rectangular map of single-byte cells. Every row has the same
// width and every cell is a wall, open floor, or a player digit.
type Grid struct {
	rows  int
	cols  int
	cells [][]byte
}

// Rows returns the number of rows in the grid.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid.
func (g *Grid) Cols() int {
	return g.cols
}

// InBounds reports whether (row, col) is inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). It panics on out-of-bounds access the
// same way a direct slice index would; callers check InBounds first.
func (g *Grid) At(row, col int) byte {
	return g.cells[row][col]
}

// IsOpen reports whether the cell at (row, col) is open: floor or a player
// token. Out-of-bounds positions are not open.
func (g *Grid) IsOpen(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	c := g.cells[row][col]
	return c == Floor || isPlayerToken(c)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([][]byte, g.rows)
	for i, row := range g.cells {
		cells[i] = make([]byte, g.cols)
		copy(cells[i], row)
	}
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// CountToken returns how many cells hold the given token.
func (g *Grid) CountToken(token byte) int {
	count := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == token {
				count++
			}
		}
	}
	return count
}

// CountOpen returns how many cells are open (floor or player token).
func (g *Grid) CountOpen() int {
	count := 0
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.IsOpen(r, c) {
				count++
			}
		}
	}
	return count
}

// isPlayerToken reports whether c is a player digit. '0' counts: a player
// token always occupies open floor regardless of its digit value.
func isPlayerToken(c byte) bool {
	return c >= '0' && c <= '9'
}

// isMapChar reports whether c belongs to the map alphabet.
func isMapChar(c byte) bool {
	return c == Wall || c == Floor || isPlayerToken(c)
}
