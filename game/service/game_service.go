package service

import (
	"context"
	"time"

	"github.com/labgrid/labyrinth/game/engine"
)

// GameService defines all game-related operations.
type GameService interface {
	// Session management
	CreateSession(ctx context.Context, mapName, player string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	RenderSession(ctx context.Context, sessionID string) (string, error)

	// Map library
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	GetMapLines(ctx context.Context, mapName string) ([]string, error)
	SaveMap(ctx context.Context, mapName string, lines []string) error
	ValidateMapText(ctx context.Context, lines []string) (*ValidationReport, error)
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id, mapName, player string, grid *engine.Grid) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles the map library.
type MapManager interface {
	Load(name string) (*engine.Grid, error)
	List() ([]*MapInfo, error)
	Save(name string, lines []string) error
	Exists(name string) bool
	Default() *engine.Grid
}

// Session represents an active game session.
type Session struct {
	ID             string
	MapName        string
	Player         string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
