package session

import (
	"time"

	"github.com/labgrid/labyrinth/game/service"
)

// SessionPersistence defines the storage contract for session snapshots.
type SessionPersistence interface {
	Save(session *service.Session) error
	Load(id string) (*service.Session, error)
	Delete(id string) error
	Exists(id string) bool
	ListIDs() ([]string, error)
}

// PersistedSessionData is the on-disk form of a session. The map is stored as
// rendered text lines; loading re-parses them through the engine's loader.
type PersistedSessionData struct {
	ID             string    `json:"id"`
	MapName        string    `json:"map_name"`
	Player         string    `json:"player"`
	Map            []string  `json:"map"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	TotalMoves     int       `json:"total_moves"`
}
