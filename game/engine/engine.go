package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations on one map.
type Engine interface {
	// Game state
	GetState() *GameState
	GetGrid() *Grid
	GetPlayerPosition() (Position, bool)

	// Movement operations
	Move(direction string) error
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord

	// Rendering
	Render() string
}

// GameState is the JSON view of an engine's current state.
type GameState struct {
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Player     string       `json:"player"`
	PlayerPos  *Position    `json:"player_pos,omitempty"` // nil until the token is on the map
	Map        []string     `json:"map"`
	TotalMoves int          `json:"total_moves"`
	LastMove   *MoveRecord  `json:"last_move,omitempty"`
	History    []MoveRecord `json:"history,omitempty"`
}

// MoveRecord is a single entry in the move history.
type MoveRecord struct {
	Direction  string    `json:"direction"`
	From       *Position `json:"from,omitempty"` // nil when the move placed an absent token
	To         *Position `json:"to,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}

// GameEngine implements the Engine interface. It owns its grid exclusively;
// concurrent callers synchronize above this layer.
type GameEngine struct {
	grid   *Grid
	player byte
	// priorMoves counts moves made before this engine was constructed, for
	// engines rebuilt from a persisted snapshot.
	priorMoves int
	history    []MoveRecord
}

// ParsePlayer validates the strict player format: exactly one decimal digit.
func ParsePlayer(player string) (byte, error) {
	if len(player) != 1 || player[0] < '0' || player[0] > '9' {
		return 0, fmt.Errorf("%w: player must be a single digit between 0 and 9, got %q", ErrInvalidArguments, player)
	}
	return player[0], nil
}

// NewEngine creates a game engine for the given grid and player digit. The
// grid must pass connectivity validation.
func NewEngine(grid *Grid, player string) (*GameEngine, error) {
	token, err := ParsePlayer(player)
	if err != nil {
		return nil, err
	}
	if err := grid.ValidateConnectivity(); err != nil {
		return nil, err
	}

	return &GameEngine{
		grid:   grid,
		player: token,
	}, nil
}

// RestoreMoveCount seeds the cumulative move counter for an engine rebuilt
// from a persisted snapshot. Snapshots keep only the map and the count;
// per-move records are not retained across restarts.
func (e *GameEngine) RestoreMoveCount(total int) {
	if total > 0 {
		e.priorMoves = total
	}
}

// GetState returns the current game state.
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Rows:       e.grid.Rows(),
		Cols:       e.grid.Cols(),
		Player:     string(e.player),
		Map:        e.grid.Lines(),
		TotalMoves: e.priorMoves + len(e.history),
		LastMove:   e.GetLastMove(),
		History:    e.GetMoveHistory(),
	}
	if pos, found := e.grid.FindPlayer(e.player); found {
		state.PlayerPos = &pos
	}
	return state
}

// GetGrid returns the underlying grid.
func (e *GameEngine) GetGrid() *Grid {
	return e.grid
}

// GetPlayerPosition returns the player's position and whether the token is
// currently on the map.
func (e *GameEngine) GetPlayerPosition() (Position, bool) {
	return e.grid.FindPlayer(e.player)
}

// Move attempts to move the player in the specified direction and records
// the attempt in the history, successful or not.
func (e *GameEngine) Move(direction string) error {
	record := MoveRecord{
		Direction:  direction,
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.priorMoves + len(e.history) + 1,
	}
	if pos, found := e.grid.FindPlayer(e.player); found {
		from := pos
		record.From = &from
	}

	err := e.grid.MovePlayer(e.player, direction)
	if err != nil {
		record.Error = err.Error()
	} else {
		record.Success = true
		if pos, found := e.grid.FindPlayer(e.player); found {
			to := pos
			record.To = &to
		}
	}

	e.history = append(e.history, record)
	return err
}

// CanMove reports whether a move in the given direction would succeed.
func (e *GameEngine) CanMove(direction string) bool {
	return e.grid.CanMove(e.player, direction)
}

// GetPossibleMoves returns the directions currently available to the player.
func (e *GameEngine) GetPossibleMoves() []string {
	return e.grid.PossibleMoves(e.player)
}

// GetMoveHistory returns a copy of the move history.
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	history := make([]MoveRecord, len(e.history))
	copy(history, e.history)
	return history
}

// GetLastMove returns the most recent move record, or nil.
func (e *GameEngine) GetLastMove() *MoveRecord {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// Render returns the grid's textual form.
func (e *GameEngine) Render() string {
	return e.grid.Render()
}
