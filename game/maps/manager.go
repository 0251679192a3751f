package maps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labgrid/labyrinth/game/engine"
	"github.com/labgrid/labyrinth/game/service"
)

// defaultMap is the built-in labyrinth used when no map name is given. It is
// a single connected region.
var defaultMap = []string{
	"##########",
	"#........#",
	"#.######.#",
	"#.#......#",
	"#.#.######",
	"#.#......#",
	"#.######.#",
	"#........#",
	"##########",
}

// Manager handles map file loading and caching.
type Manager struct {
	mapsDir string
	cache   map[string][]string
	mu      sync.RWMutex
}

// NewManager creates a new map manager over the given directory.
func NewManager(mapsDir string) (*Manager, error) {
	if _, err := os.Stat(mapsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("maps directory does not exist: %s", mapsDir)
	}

	return &Manager{
		mapsDir: mapsDir,
		cache:   make(map[string][]string),
	}, nil
}

// filename normalizes a map name to its on-disk filename.
func filename(name string) string {
	if !strings.HasSuffix(name, ".map") {
		return name + ".map"
	}
	return name
}

// Load parses a map by name. Every call returns a fresh Grid parsed from the
// cached file contents; callers own the returned grid exclusively.
func (m *Manager) Load(name string) (*engine.Grid, error) {
	m.mu.RLock()
	lines, cached := m.cache[name]
	m.mu.RUnlock()

	if cached {
		return engine.Parse(lines)
	}

	path := filepath.Join(m.mapsDir, filename(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", engine.ErrMapNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", engine.ErrMapNotFound, err)
	}

	lines = strings.Split(string(data), "\n")
	grid, err := engine.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", name, err)
	}

	m.mu.Lock()
	m.cache[name] = lines
	m.mu.Unlock()

	return grid, nil
}

// List returns information about all maps in the directory. Files that fail
// to parse are skipped.
func (m *Manager) List() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	var infos []*service.MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".map") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".map")
		grid, err := m.Load(name)
		if err != nil {
			continue
		}

		infos = append(infos, describe(name, entry.Name(), grid))
	}

	return infos, nil
}

// Save validates and writes a map to disk, replacing any cached copy.
func (m *Manager) Save(name string, lines []string) error {
	grid, err := engine.Parse(lines)
	if err != nil {
		return err
	}
	if err := grid.ValidateConnectivity(); err != nil {
		return err
	}

	path := filepath.Join(m.mapsDir, filename(name))
	if err := os.WriteFile(path, []byte(grid.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	m.mu.Lock()
	m.cache[name] = grid.Lines()
	m.mu.Unlock()

	return nil
}

// Exists reports whether a map with the given name is available.
func (m *Manager) Exists(name string) bool {
	m.mu.RLock()
	_, cached := m.cache[name]
	m.mu.RUnlock()
	if cached {
		return true
	}

	_, err := os.Stat(filepath.Join(m.mapsDir, filename(name)))
	return err == nil
}

// Default returns a fresh copy of the built-in default map.
func (m *Manager) Default() *engine.Grid {
	grid, err := engine.Parse(defaultMap)
	if err != nil {
		// The built-in map is a compile-time constant; failing to parse it
		// is a programming error.
		panic(fmt.Sprintf("built-in default map is invalid: %v", err))
	}
	return grid
}

// RefreshCache drops all cached map contents so the next Load rereads disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.cache = make(map[string][]string)
	m.mu.Unlock()
}

// describe builds the MapInfo summary for a parsed grid.
func describe(name, file string, grid *engine.Grid) *service.MapInfo {
	var players []string
	for token := byte('0'); token <= '9'; token++ {
		if n := grid.CountToken(token); n > 0 {
			players = append(players, string(token))
		}
	}

	return &service.MapInfo{
		MapID:     name,
		Filename:  file,
		Rows:      grid.Rows(),
		Cols:      grid.Cols(),
		OpenCells: grid.CountOpen(),
		Players:   players,
		Regions:   grid.CountRegions(),
		Valid:     grid.ValidateConnectivity() == nil,
	}
}
