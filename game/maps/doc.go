// Package maps manages the library of labyrinth map files.
//
// Maps are plain text files with a .map extension stored in a single
// directory, one grid row per line. The Manager caches raw file contents and
// hands out a freshly parsed Grid on every Load, so concurrent sessions never
// share mutable grid state. A built-in default map is used when a session is
// created without naming one.
package maps
