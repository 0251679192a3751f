// Package engine provides the core map logic for the Labyrinth game.
//
// The engine package implements:
//   - Parsing rectangular text maps into an in-memory grid
//   - Structural validation (shape, alphabet, dimension bounds)
//   - Connectivity validation (single 4-connected open region)
//   - Bounded single-step player movement and placement
//   - Rendering the grid back to text
//
// Core Types:
//
// Grid is the in-memory map: a bounded rectangle of single-byte cells where
// '#' is a wall, '.' is open floor, and a digit '0'-'9' is a player token
// occupying open floor. GameEngine binds a Grid to one player token and
// keeps a move history on top of the raw grid operations.
//
// Usage:
//
//	grid, err := engine.LoadFile("maze.map")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := grid.ValidateConnectivity(); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := grid.MovePlayer('3', "up"); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(grid.Render())
//
// Validation Rules:
//
// A map is structurally valid when every row has the same width, both
// dimensions are between 1 and MaxDim, and every cell is a wall, open floor,
// or a player digit. A structurally valid map passes connectivity validation
// when all of its open cells (floor and player tokens) form at most one
// 4-connected region; a map with no open cells at all is accepted.
package engine
