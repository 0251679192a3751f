// Package service defines the game service layer for the Labyrinth game.
//
// The service package sits between the transports (REST, WebSocket, MCP) and
// the engine. It owns session orchestration: creating a session binds a map
// to a player token, moves are applied through the session's engine, and
// every state change is persisted through the session manager.
//
// The package defines three contracts:
//   - GameService: the full operation surface exposed to transports
//   - SessionManager: session storage and persistence
//   - MapManager: the map library
//
// Concrete implementations live in game/session and game/maps; the service
// implementation here wires them together.
package service
