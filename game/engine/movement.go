package engine

import "fmt"

// directionDeltas maps the direction vocabulary to row/column offsets.
var directionDeltas = map[string]struct{ dr, dc int }{
	"up":    {-1, 0},
	"down":  {1, 0},
	"left":  {0, -1},
	"right": {0, 1},
}

// Directions returns the accepted direction strings in a stable order.
func Directions() []string {
	return []string{"up", "down", "left", "right"}
}

// FindPlayer returns the position of the first cell holding the player
// token, scanning row-major. Duplicate tokens are tolerated; only the first
// occurrence is reported.
func (g *Grid) FindPlayer(token byte) (Position, bool) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == token {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// firstOpenFloor returns the row-major-first '.' cell.
func (g *Grid) firstOpenFloor() (Position, bool) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == Floor {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// MovePlayer moves the player token one cell in the given direction. When the
// token is not on the grid it is placed on the row-major-first open floor
// cell instead. The move succeeds only onto an in-bounds '.' cell; on any
// failure the grid is left untouched.
func (g *Grid) MovePlayer(token byte, direction string) error {
	if !isPlayerToken(token) {
		return fmt.Errorf("%w: player must be a single digit 0-9, got %q", ErrInvalidArguments, token)
	}

	delta, ok := directionDeltas[direction]
	if !ok {
		return fmt.Errorf("%w: unknown direction %q", ErrMoveFailed, direction)
	}

	pos, found := g.FindPlayer(token)
	if !found {
		spot, ok := g.firstOpenFloor()
		if !ok {
			return fmt.Errorf("%w: no open cell to place player %c", ErrMoveFailed, token)
		}
		g.cells[spot.Row][spot.Col] = token
		return nil
	}

	nr, nc := pos.Row+delta.dr, pos.Col+delta.dc
	if !g.InBounds(nr, nc) {
		return fmt.Errorf("%w: target (%d,%d) is outside the map", ErrMoveFailed, nr, nc)
	}
	if g.cells[nr][nc] != Floor {
		return fmt.Errorf("%w: target (%d,%d) is %q, not open floor", ErrMoveFailed, nr, nc, g.cells[nr][nc])
	}

	g.cells[pos.Row][pos.Col] = Floor
	g.cells[nr][nc] = token
	return nil
}

// CanMove reports whether MovePlayer would succeed for the given direction
// without mutating the grid.
func (g *Grid) CanMove(token byte, direction string) bool {
	if !isPlayerToken(token) {
		return false
	}
	delta, ok := directionDeltas[direction]
	if !ok {
		return false
	}

	pos, found := g.FindPlayer(token)
	if !found {
		_, ok := g.firstOpenFloor()
		return ok
	}

	nr, nc := pos.Row+delta.dr, pos.Col+delta.dc
	return g.InBounds(nr, nc) && g.cells[nr][nc] == Floor
}

// PossibleMoves returns the directions the player could currently move in.
func (g *Grid) PossibleMoves(token byte) []string {
	moves := []string{}
	for _, dir := range Directions() {
		if g.CanMove(token, dir) {
			moves = append(moves, dir)
		}
	}
	return moves
}
