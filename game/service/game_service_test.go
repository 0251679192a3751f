package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/labgrid/labyrinth/game/engine"
)

// fakeSessionManager is an in-memory SessionManager for service tests.
type fakeSessionManager struct {
	sessions map[string]*Session
	saves    int
	nextID   int
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: make(map[string]*Session)}
}

func (f *fakeSessionManager) Create(id, mapName, player string, grid *engine.Grid) (*Session, error) {
	if id == "" {
		f.nextID++
		id = fmt.Sprintf("s%d", f.nextID)
	}
	eng, err := engine.NewEngine(grid, player)
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:             id,
		MapName:        mapName,
		Player:         player,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	f.sessions[id] = session
	return session, nil
}

func (f *fakeSessionManager) Get(id string) (*Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeSessionManager) List() []*Session {
	var out []*Session
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out
}

func (f *fakeSessionManager) Delete(id string) error {
	if _, ok := f.sessions[id]; !ok {
		return errors.New("not found")
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionManager) UpdateLastAccessed(id string) error { return nil }

func (f *fakeSessionManager) Save(id string) error {
	f.saves++
	return nil
}

// fakeMapManager serves maps from a fixed set of line slices.
type fakeMapManager struct {
	maps map[string][]string
}

func newFakeMapManager() *fakeMapManager {
	return &fakeMapManager{maps: map[string][]string{
		"corridor": {"#####", "#.1.#", "#####"},
		"cell":     {"###", "#.#", "###"},
	}}
}

func (f *fakeMapManager) Load(name string) (*engine.Grid, error) {
	lines, ok := f.maps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", engine.ErrMapNotFound, name)
	}
	return engine.Parse(lines)
}

func (f *fakeMapManager) List() ([]*MapInfo, error) {
	var infos []*MapInfo
	for name := range f.maps {
		infos = append(infos, &MapInfo{MapID: name})
	}
	return infos, nil
}

func (f *fakeMapManager) Save(name string, lines []string) error {
	grid, err := engine.Parse(lines)
	if err != nil {
		return err
	}
	if err := grid.ValidateConnectivity(); err != nil {
		return err
	}
	f.maps[name] = lines
	return nil
}

func (f *fakeMapManager) Exists(name string) bool {
	_, ok := f.maps[name]
	return ok
}

func (f *fakeMapManager) Default() *engine.Grid {
	grid, _ := engine.Parse(f.maps["cell"])
	return grid
}

func newTestService() (GameService, *fakeSessionManager, *fakeMapManager) {
	sessions := newFakeSessionManager()
	maps := newFakeMapManager()
	return NewGameService(sessions, maps), sessions, maps
}

func TestCreateSessionWithMap(t *testing.T) {
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "corridor", "1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.MapName != "corridor" || info.Player != "1" {
		t.Errorf("Unexpected session info: %+v", info)
	}
	if info.GameState == nil || info.GameState.Rows != 3 {
		t.Errorf("Expected game state for the corridor map, got %+v", info.GameState)
	}
}

func TestCreateSessionDefaultMap(t *testing.T) {
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "", "5")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.MapName != "default" {
		t.Errorf("Expected default map name, got %q", info.MapName)
	}
}

func TestCreateSessionUnknownMap(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "nowhere", "1")
	if !errors.Is(err, engine.ErrMapNotFound) {
		t.Errorf("Expected ErrMapNotFound, got %v", err)
	}
}

func TestCreateSessionBadPlayer(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "corridor", "99")
	if !errors.Is(err, engine.ErrInvalidArguments) {
		t.Errorf("Expected ErrInvalidArguments, got %v", err)
	}
}

func TestMoveSuccessSavesSession(t *testing.T) {
	svc, sessions, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "corridor", "1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.Move(context.Background(), info.ID, "right")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Success {
		t.Errorf("Expected successful move, got %+v", result)
	}
	if result.Rendered != "#####\n#..1#\n#####\n" {
		t.Errorf("Unexpected rendered grid:\n%s", result.Rendered)
	}
	if sessions.saves != 1 {
		t.Errorf("Expected 1 session save after the move, got %d", sessions.saves)
	}
}

func TestMoveFailureReturnsResultAndError(t *testing.T) {
	svc, sessions, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "corridor", "1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.Move(context.Background(), info.ID, "up")
	if !errors.Is(err, engine.ErrMoveFailed) {
		t.Fatalf("Expected ErrMoveFailed, got %v", err)
	}
	if result == nil || result.Success {
		t.Errorf("Expected failure result, got %+v", result)
	}
	if result.Message == "" {
		t.Error("Expected a failure message")
	}
	if sessions.saves != 0 {
		t.Errorf("Expected no save after a failed move, got %d", sessions.saves)
	}
}

func TestMoveUnknownSession(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Move(context.Background(), "ghost", "up")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestRenderSession(t *testing.T) {
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "corridor", "1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rendered, err := svc.RenderSession(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("RenderSession failed: %v", err)
	}
	if rendered != "#####\n#.1.#\n#####\n" {
		t.Errorf("Unexpected render:\n%s", rendered)
	}
}

func TestDeleteSession(t *testing.T) {
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "corridor", "1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := svc.DeleteSession(context.Background(), info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), info.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestValidateMapText(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	report, err := svc.ValidateMapText(ctx, []string{"#.#", "#.#", "#.#"})
	if err != nil {
		t.Fatalf("ValidateMapText failed: %v", err)
	}
	if !report.Valid || report.Regions != 1 || report.OpenCells != 3 {
		t.Errorf("Unexpected report: %+v", report)
	}

	report, err = svc.ValidateMapText(ctx, []string{".#.", "###", ".#."})
	if err != nil {
		t.Fatalf("ValidateMapText failed: %v", err)
	}
	if report.Valid || report.Regions != 2 {
		t.Errorf("Expected invalid two-region report, got %+v", report)
	}

	report, err = svc.ValidateMapText(ctx, []string{"#x#"})
	if err != nil {
		t.Fatalf("ValidateMapText failed: %v", err)
	}
	if report.Valid || len(report.Errors) == 0 {
		t.Errorf("Expected structural failure report, got %+v", report)
	}
}

func TestSaveMapRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.SaveMap(context.Background(), "", []string{"###"})
	if !errors.Is(err, engine.ErrInvalidArguments) {
		t.Errorf("Expected ErrInvalidArguments, got %v", err)
	}
}

func TestGetMapLines(t *testing.T) {
	svc, _, _ := newTestService()

	lines, err := svc.GetMapLines(context.Background(), "cell")
	if err != nil {
		t.Fatalf("GetMapLines failed: %v", err)
	}
	if len(lines) != 3 || lines[1] != "#.#" {
		t.Errorf("Unexpected lines: %v", lines)
	}
}
