package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/labgrid/labyrinth/game/engine"
	"github.com/labgrid/labyrinth/game/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Labyrinth Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Labyrinth Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

THE MAP:
A rectangular grid of '#' (walls), '.' (open floor), and digits 0-9 (player
tokens). A valid map's open cells form exactly one connected region.

AVAILABLE TOOLS:
- create_session: Start a game on a named map (or the default) with a player digit
- list_sessions / get_session / delete_session: Session management
- move: Move the player one cell (up/down/left/right); a player not yet on
  the map is placed on the first open floor cell instead
- game_state: Current state as JSON-ish text
- render_map: The raw map text for a session
- list_maps: Maps available in the library
- validate_map: Check raw map text for shape and connectivity problems
- game_instructions: Full rules

Moves fail against walls, other players, and the map edge; the map is never
left half-changed.`),
	)

	c.registerTools()
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session on a map with a player digit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the map to use (optional, defaults to the built-in map)",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Player token: a single digit 0-9",
				},
			},
			Required: []string{"player"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to delete",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell (up/down/left/right). Places the player on the first open floor cell if not yet on the map.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "One of: up, down, left, right",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_map",
		Description: "Get the session's map as raw text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRenderMap)

	// Map library
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps in the library",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_map",
		Description: "Validate raw map text: shape, alphabet, and single-region connectivity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"lines": map[string]interface{}{
					"type":        "array",
					"description": "Map rows, one string per row",
					"items":       map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"lines"},
		},
	}, c.handleValidateMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and map format",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// apiCall makes an HTTP request to the REST API and decodes the response.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Failed moves still carry a result body worth surfacing.
		if result != nil && resp.StatusCode == http.StatusConflict {
			if decodeErr := json.NewDecoder(resp.Body).Decode(result); decodeErr == nil {
				return nil
			}
		}
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	mapName, _ := args["map_name"].(string)
	player, _ := args["player"].(string)

	body := map[string]string{
		"map_name": mapName,
		"player":   player,
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Map: %s, Player: %s, Created: %s)\n",
			s.ID, s.MapName, s.Player, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	if err := c.apiCall("DELETE", "/api/sessions/"+sessionID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	body := map[string]string{"direction": direction}

	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRenderMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(strings.Join(state.Map, "\n") + "\n"), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Maps  []*service.MapInfo `json:"maps"`
	}

	if err := c.apiCall("GET", "/api/maps", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Maps (%d):\n\n", response.Count)
	for _, m := range response.Maps {
		validity := "valid"
		if !m.Valid {
			validity = fmt.Sprintf("INVALID (%d regions)", m.Regions)
		}
		result += fmt.Sprintf("- %s: %dx%d, %d open cells, players %v, %s\n",
			m.MapID, m.Rows, m.Cols, m.OpenCells, m.Players, validity)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleValidateMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	linesRaw, _ := args["lines"].([]interface{})

	lines := make([]string, 0, len(linesRaw))
	for _, l := range linesRaw {
		if line, ok := l.(string); ok {
			lines = append(lines, line)
		}
	}

	body := map[string]interface{}{"lines": lines}

	var report service.ValidationReport
	if err := c.apiCall("POST", "/api/validate", body, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if report.Valid {
		return mcp.NewToolResultText(fmt.Sprintf(
			"VALID\nDimensions: %dx%d\nOpen cells: %d\nRegions: %d",
			report.Rows, report.Cols, report.OpenCells, report.Regions)), nil
	}

	return mcp.NewToolResultText("INVALID\n" + strings.Join(report.Errors, "\n")), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `LABYRINTH GAME

MAP FORMAT:
- Rectangular grid, at most 100x100
- '#' wall (impassable)
- '.' open floor
- '0'-'9' player tokens standing on open floor
- Every row has the same width; blank lines in map files are ignored

VALIDITY:
- All open cells (floor and player tokens) must form exactly ONE
  4-connected region
- A map with no open cells at all is valid

MOVEMENT:
- Directions: up, down, left, right (one cell per move)
- The target cell must be in bounds and exactly '.'; walls, other
  players, and the map edge reject the move and leave the map unchanged
- A player not yet on the map is placed on the first open floor cell
  in row-major order

WORKFLOW:
1. create_session with a map name and a player digit
2. move to walk the player through the labyrinth
3. game_state / render_map to observe
4. validate_map to check map text without creating a session`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nMap: %s\nPlayer: %s\nCreated: %s\n\n%s",
		session.ID, session.MapName, session.Player,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	if state.PlayerPos != nil {
		result.WriteString(fmt.Sprintf("Player %s at (%d,%d) | Moves: %d\n\n",
			state.Player, state.PlayerPos.Row, state.PlayerPos.Col, state.TotalMoves))
	} else {
		result.WriteString(fmt.Sprintf("Player %s not yet placed | Moves: %d\n\n",
			state.Player, state.TotalMoves))
	}

	for _, row := range state.Map {
		result.WriteString(row)
		result.WriteString("\n")
	}

	if state.LastMove != nil && !state.LastMove.Success {
		result.WriteString(fmt.Sprintf("\nLast move failed: %s", state.LastMove.Error))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var response strings.Builder
	if result.Success {
		response.WriteString(fmt.Sprintf("✓ Moved %s\n\n", result.Direction))
	} else {
		response.WriteString(fmt.Sprintf("✗ Move %s failed: %s\n\n", result.Direction, result.Message))
	}

	response.WriteString(result.Rendered)
	response.WriteString(fmt.Sprintf("\nPossible moves: %s", strings.Join(result.PossibleMoves, ", ")))

	return response.String()
}
