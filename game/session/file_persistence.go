package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/labgrid/labyrinth/game/engine"
	"github.com/labgrid/labyrinth/game/service"
)

// FilePersistence implements SessionPersistence using file system storage,
// one JSON file per session.
type FilePersistence struct {
	sessionsDir string
}

// NewFilePersistence creates a new file-based session persistence layer.
func NewFilePersistence(sessionsDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{sessionsDir: sessionsDir}, nil
}

// Save persists a session to a JSON file.
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	state := session.Engine.GetState()
	data := PersistedSessionData{
		ID:             session.ID,
		MapName:        session.MapName,
		Player:         session.Player,
		Map:            state.Map,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		TotalMoves:     state.TotalMoves,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := os.WriteFile(fp.filePath(session.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load retrieves a session from its JSON file. The snapshot's map lines go
// back through the engine constructor, so a corrupted snapshot fails loading
// rather than producing a broken session.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	jsonData, err := os.ReadFile(fp.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	grid, err := engine.Parse(data.Map)
	if err != nil {
		return nil, fmt.Errorf("persisted map for session %s: %w", id, err)
	}
	eng, err := engine.NewEngine(grid, data.Player)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild engine for session %s: %w", id, err)
	}
	eng.RestoreMoveCount(data.TotalMoves)

	return &service.Session{
		ID:             data.ID,
		MapName:        data.MapName,
		Player:         data.Player,
		Engine:         eng,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session's file. Deleting a missing file is not an error.
func (fp *FilePersistence) Delete(id string) error {
	err := os.Remove(fp.filePath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists reports whether a snapshot exists for the given session ID.
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.filePath(id))
	return err == nil
}

// ListIDs returns the IDs of all persisted sessions.
func (fp *FilePersistence) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// filePath returns the snapshot path for a session ID.
func (fp *FilePersistence) filePath(id string) string {
	return filepath.Join(fp.sessionsDir, id+".json")
}
