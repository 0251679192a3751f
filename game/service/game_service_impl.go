package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/labgrid/labyrinth/game/engine"
)

// ErrSessionNotFound reports an unknown session ID at the service boundary.
// The session package returns its own sentinel; this one is what transports
// test against.
var ErrSessionNotFound = errors.New("session not found")

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	sessions SessionManager
	maps     MapManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance.
func NewGameService(sessions SessionManager, maps MapManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

// CreateSession creates a new game session for the given map and player. An
// empty map name selects the built-in default map. The map must pass
// connectivity validation before the session exists.
func (s *gameServiceImpl) CreateSession(ctx context.Context, mapName, player string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var grid *engine.Grid
	var err error
	if mapName != "" {
		grid, err = s.maps.Load(mapName)
		if err != nil {
			if errors.Is(err, engine.ErrMapNotFound) {
				if available, listErr := s.maps.List(); listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, info := range available {
						ids = append(ids, info.MapID)
					}
					return nil, fmt.Errorf("%w: %q (available maps: %v)", engine.ErrMapNotFound, mapName, ids)
				}
			}
			return nil, err
		}
	} else {
		grid = s.maps.Default()
		mapName = "default"
	}

	session, err := s.sessions.Create("", mapName, player, grid)
	if err != nil {
		return nil, err
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, sessionInfo(session))
	}
	return infos, nil
}

// DeleteSession removes a session.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Move applies a single move to a session. A failed move returns both the
// engine error and a MoveResult describing the unchanged state, so transports
// can report the failure with full context.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	moveErr := session.Engine.Move(direction)

	result := &MoveResult{
		Success:       moveErr == nil,
		Direction:     direction,
		GameState:     session.Engine.GetState(),
		Rendered:      session.Engine.Render(),
		PossibleMoves: session.Engine.GetPossibleMoves(),
	}
	if moveErr != nil {
		result.Message = moveErr.Error()
		return result, moveErr
	}

	if err := s.sessions.Save(sessionID); err != nil {
		return result, fmt.Errorf("move applied but session save failed: %w", err)
	}
	return result, nil
}

// GetGameState returns the current state of a session.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return session.Engine.GetState(), nil
}

// RenderSession returns the session grid's textual form.
func (s *gameServiceImpl) RenderSession(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session.Engine.Render(), nil
}

// ListMaps returns the map library contents.
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.List()
}

// GetMapLines returns the raw rows of a stored map.
func (s *gameServiceImpl) GetMapLines(ctx context.Context, mapName string) ([]string, error) {
	grid, err := s.maps.Load(mapName)
	if err != nil {
		return nil, err
	}
	return grid.Lines(), nil
}

// SaveMap stores a new map in the library.
func (s *gameServiceImpl) SaveMap(ctx context.Context, mapName string, lines []string) error {
	if mapName == "" {
		return fmt.Errorf("%w: map name is required", engine.ErrInvalidArguments)
	}
	return s.maps.Save(mapName, lines)
}

// ValidateMapText runs structural and connectivity validation over raw map
// lines and reports the outcome without storing anything.
func (s *gameServiceImpl) ValidateMapText(ctx context.Context, lines []string) (*ValidationReport, error) {
	grid, err := engine.Parse(lines)
	if err != nil {
		return &ValidationReport{
			Valid:  false,
			Errors: []string{err.Error()},
		}, nil
	}

	report := &ValidationReport{
		Rows:      grid.Rows(),
		Cols:      grid.Cols(),
		OpenCells: grid.CountOpen(),
		Regions:   grid.CountRegions(),
		Rendered:  grid.Lines(),
	}
	if err := grid.ValidateConnectivity(); err != nil {
		report.Errors = []string{err.Error()}
	} else {
		report.Valid = true
	}
	return report, nil
}

// sessionInfo builds the SessionInfo view for a session.
func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		MapName:        session.MapName,
		Player:         session.Player,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
	}
}
