package engine

// neighborDeltas are the 4-connected neighbor offsets used by both the
// connectivity check and movement.
var neighborDeltas = [4]struct{ dr, dc int }{
	{-1, 0}, // up
	{1, 0},  // down
	{0, -1}, // left
	{0, 1},  // right
}

// ValidateConnectivity confirms that all open cells form at most one
// 4-connected region. It scans cells in row-major order, flood-filling each
// unvisited open cell, and fails as soon as a second region is found. A grid
// with no open cells passes. The grid is not modified.
func (g *Grid) ValidateConnectivity() error {
	visited := make([][]bool, g.rows)
	for i := range visited {
		visited[i] = make([]bool, g.cols)
	}

	regions := 0
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if !g.IsOpen(r, c) || visited[r][c] {
				continue
			}
			regions++
			if regions > 1 {
				return ErrMultipleEmptyAreas
			}
			g.floodFill(r, c, visited)
		}
	}
	return nil
}

// CountRegions returns the number of disjoint connected regions of open
// cells. Unlike ValidateConnectivity it always scans the whole grid.
func (g *Grid) CountRegions() int {
	visited := make([][]bool, g.rows)
	for i := range visited {
		visited[i] = make([]bool, g.cols)
	}

	regions := 0
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.IsOpen(r, c) && !visited[r][c] {
				regions++
				g.floodFill(r, c, visited)
			}
		}
	}
	return regions
}

// floodFill marks every open cell reachable from (row, col) via 4-connected
// open neighbors. Traversal uses an explicit worklist; a full-floor
// MaxDim x MaxDim map would blow the stack with recursion.
func (g *Grid) floodFill(row, col int, visited [][]bool) {
	queue := []Position{{Row: row, Col: col}}
	visited[row][col] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, d := range neighborDeltas {
			nr, nc := p.Row+d.dr, p.Col+d.dc
			if !g.IsOpen(nr, nc) || visited[nr][nc] {
				continue
			}
			visited[nr][nc] = true
			queue = append(queue, Position{Row: nr, Col: nc})
		}
	}
}
