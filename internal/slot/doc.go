// Package slot provides durable key/value slots for the serialized overlay.
//
// A slot holds one opaque string per key and is read and written whole; there
// is no partial-field access. The overlay store uses exactly one key
// (overlay.StorageKey) and is the only writer.
//
// # Backends
//
//   - SQLite (default): one row per key in a local database file, WAL mode,
//     schema versioned through PRAGMA user_version
//   - File: one file per key in a directory, replaced atomically
//   - Memory: in-process map for tests, with fault injection
//
// Every backend failure is reported as *StorageUnavailableError; a key that
// was never written is ErrNotFound.
package slot
