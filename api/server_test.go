package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labgrid/labyrinth/game/maps"
	"github.com/labgrid/labyrinth/game/service"
	"github.com/labgrid/labyrinth/game/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "corridor.map"), []byte("#####\n#.1.#\n#####\n"), 0644); err != nil {
		t.Fatalf("Failed to write test map: %v", err)
	}

	mapManager, err := maps.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create map manager: %v", err)
	}

	gameService := service.NewGameService(session.NewManager(), mapManager)
	server := httptest.NewServer(NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/sessions", map[string]string{
		"map_name": "corridor",
		"player":   "1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var info service.SessionInfo
	decode(t, resp, &info)
	if info.ID == "" {
		t.Fatal("Expected a session ID")
	}
	return info.ID
}

func TestCreateAndGetSession(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)

	resp, err := http.Get(server.URL + "/api/sessions/" + id)
	if err != nil {
		t.Fatalf("GET session failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var info service.SessionInfo
	decode(t, resp, &info)
	if info.MapName != "corridor" || info.Player != "1" {
		t.Errorf("Unexpected session: %+v", info)
	}
}

func TestCreateSessionRejectsBadPlayer(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/sessions", map[string]string{
		"map_name": "corridor",
		"player":   "xyz",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", resp.StatusCode)
	}
}

func TestCreateSessionUnknownMap(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/sessions", map[string]string{
		"map_name": "nowhere",
		"player":   "1",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestMoveEndpoint(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/move", server.URL, id), map[string]string{
		"direction": "left",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result service.MoveResult
	decode(t, resp, &result)
	if !result.Success {
		t.Errorf("Expected successful move: %+v", result)
	}
	if result.Rendered != "#####\n#1..#\n#####\n" {
		t.Errorf("Unexpected rendered grid:\n%s", result.Rendered)
	}
}

func TestMoveReportsFailedSnapshotSave(t *testing.T) {
	dir := t.TempDir()
	mapsDir := filepath.Join(dir, "maps")
	if err := os.Mkdir(mapsDir, 0755); err != nil {
		t.Fatalf("Failed to create maps dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mapsDir, "corridor.map"), []byte("#####\n#.1.#\n#####\n"), 0644); err != nil {
		t.Fatalf("Failed to write test map: %v", err)
	}

	mapManager, err := maps.NewManager(mapsDir)
	if err != nil {
		t.Fatalf("Failed to create map manager: %v", err)
	}

	sessionsDir := filepath.Join(dir, "sessions")
	persistence, err := session.NewFilePersistence(sessionsDir)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	gameService := service.NewGameService(session.NewManagerWithPersistence(persistence), mapManager)
	server := httptest.NewServer(NewServer(gameService, nil))
	t.Cleanup(server.Close)

	id := createSession(t, server)

	// Break the snapshot directory so the post-move save fails.
	if err := os.RemoveAll(sessionsDir); err != nil {
		t.Fatalf("Failed to remove sessions dir: %v", err)
	}

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/move", server.URL, id), map[string]string{
		"direction": "left",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for an applied move, got %d", resp.StatusCode)
	}

	var result service.MoveResult
	decode(t, resp, &result)
	if !result.Success {
		t.Errorf("Expected the move itself to succeed: %+v", result)
	}
	if !strings.Contains(result.Message, "session save failed") {
		t.Errorf("Expected the save failure in the response message, got %q", result.Message)
	}
}

func TestMoveIntoWallReturnsConflict(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/move", server.URL, id), map[string]string{
		"direction": "up",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", resp.StatusCode)
	}

	var result service.MoveResult
	decode(t, resp, &result)
	if result.Success || result.Message == "" {
		t.Errorf("Expected failure result with message: %+v", result)
	}

	// The grid is untouched.
	renderResp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/render", server.URL, id))
	if err != nil {
		t.Fatalf("GET render failed: %v", err)
	}
	defer renderResp.Body.Close()
	buf := new(bytes.Buffer)
	buf.ReadFrom(renderResp.Body)
	if buf.String() != "#####\n#.1.#\n#####\n" {
		t.Errorf("Expected unchanged grid, got:\n%s", buf.String())
	}
}

func TestRenderEndpointIsPlainText(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/render", server.URL, id))
	if err != nil {
		t.Fatalf("GET render failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Expected text/plain content type, got %q", ct)
	}
}

func TestMapsEndpoints(t *testing.T) {
	server := newTestServer(t)

	// Save a new map.
	resp := postJSON(t, server.URL+"/api/maps", map[string]interface{}{
		"name":  "cell",
		"lines": []string{"###", "#.#", "###"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	// List includes both maps.
	listResp, err := http.Get(server.URL + "/api/maps")
	if err != nil {
		t.Fatalf("GET maps failed: %v", err)
	}
	var list struct {
		Count int                `json:"count"`
		Maps  []*service.MapInfo `json:"maps"`
	}
	decode(t, listResp, &list)
	if list.Count != 2 {
		t.Errorf("Expected 2 maps, got %d", list.Count)
	}

	// Fetch one map's lines.
	getResp, err := http.Get(server.URL + "/api/maps/cell")
	if err != nil {
		t.Fatalf("GET map failed: %v", err)
	}
	var got struct {
		MapID string   `json:"map_id"`
		Lines []string `json:"lines"`
	}
	decode(t, getResp, &got)
	if got.MapID != "cell" || len(got.Lines) != 3 {
		t.Errorf("Unexpected map payload: %+v", got)
	}
}

func TestSaveMapRejectsDisconnected(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/maps", map[string]interface{}{
		"name":  "split",
		"lines": []string{".#."},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", resp.StatusCode)
	}
}

func TestValidateEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/validate", map[string]interface{}{
		"lines": []string{".#.", "###", ".#."},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var report service.ValidationReport
	decode(t, resp, &report)
	if report.Valid || report.Regions != 2 {
		t.Errorf("Expected invalid two-region report: %+v", report)
	}
}

func TestDeleteSessionEndpoint(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/sessions/"+id, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	getResp, err := http.Get(server.URL + "/api/sessions/" + id)
	if err != nil {
		t.Fatalf("GET after delete failed: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", getResp.StatusCode)
	}
}
