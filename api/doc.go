// Package api provides the REST API server for the Labyrinth game.
//
// The server exposes session management, move operations, the map library,
// and one-shot map validation over JSON, plus a text/plain render endpoint
// and the WebSocket attach point. Engine error kinds map onto HTTP status
// codes: unknown maps and sessions are 404, structural and argument problems
// are 422, and rejected moves are 409.
package api
