// Package session manages game session lifecycle and persistence.
//
// The Manager keeps active sessions in memory behind a RWMutex and assigns
// UUID identifiers. When constructed with a SessionPersistence it snapshots
// every session to disk on creation and after each saved state change, and
// transparently reloads persisted sessions that have fallen out of memory.
//
// Persisted snapshots store the rendered map lines rather than any internal
// representation, so a reload goes back through the engine's loader and
// re-validates the grid it gets.
package session
