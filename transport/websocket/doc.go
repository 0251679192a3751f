// Package websocket provides the WebSocket transport for the Labyrinth game.
//
// A central Hub manages all connections in a hub-and-spoke model. Clients
// attach to one session via a query parameter when the connection is
// established, and every state change in that session is broadcast to its
// clients as a JSON message carrying the fresh game state.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded:
//   - {session_id, event: "state_update", game_state: {...}}
//   - {session_id, event: "<custom>", data: {...}}
//
// Incoming messages are not processed; the read pump only keeps the
// connection alive and detects closure.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// in an HTTP handler:
//	hub.ServeWS(w, r, sessionID)
//
// The hub event loop serializes all register/unregister/broadcast traffic,
// so multiple clients can connect and disconnect concurrently.
package websocket
