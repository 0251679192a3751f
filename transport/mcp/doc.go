// Package mcp provides the MCP (Model Context Protocol) transport for the
// Labyrinth game.
//
// The Client is a thin proxy: it owns an MCPServer whose tools all forward to
// the REST API over HTTP, so MCP callers and REST callers always see the same
// state. The server can be driven over stdio or mounted as an HTTP endpoint
// via GetMCPServer().HandleMessage.
//
// Tools cover the full game surface: session management, single-step moves,
// state and render queries, the map library, and one-shot map validation.
package mcp
