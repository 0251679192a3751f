package service

import (
	"time"

	"github.com/labgrid/labyrinth/game/engine"
)

// SessionInfo provides information about a game session.
type SessionInfo struct {
	ID             string            `json:"id"`
	MapName        string            `json:"map_name"`
	Player         string            `json:"player"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation.
type MoveResult struct {
	Success       bool              `json:"success"`
	Direction     string            `json:"direction"`
	Message       string            `json:"message,omitempty"`
	GameState     *engine.GameState `json:"game_state"`
	Rendered      string            `json:"rendered"`
	PossibleMoves []string          `json:"possible_moves"`
}

// MapInfo summarizes one map in the library.
type MapInfo struct {
	MapID     string   `json:"map_id"`
	Filename  string   `json:"filename"`
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	OpenCells int      `json:"open_cells"`
	Players   []string `json:"players,omitempty"`
	Regions   int      `json:"regions"`
	Valid     bool     `json:"valid"`
}

// ValidationReport is the outcome of validating raw map text.
type ValidationReport struct {
	Valid     bool     `json:"valid"`
	Rows      int      `json:"rows,omitempty"`
	Cols      int      `json:"cols,omitempty"`
	OpenCells int      `json:"open_cells,omitempty"`
	Regions   int      `json:"regions,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Rendered  []string `json:"rendered,omitempty"`
}
