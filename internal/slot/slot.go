package slot

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when the key was never written.
var ErrNotFound = errors.New("slot: key not found")

// Slot is a durable string-keyed value store.
type Slot interface {
	// Read returns the value stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) (string, error)

	// Write replaces the value stored under key.
	Write(ctx context.Context, key, value string) error

	// Close releases the backend. Further calls fail.
	Close() error
}

// StorageUnavailableError reports that the backing store could not be read
// or written: missing permissions, disk full, a closed or corrupt database.
type StorageUnavailableError struct {
	Op  string // "open", "read" or "write"
	Key string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage unavailable: %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage unavailable: %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable returns true if err is or wraps a StorageUnavailableError.
func IsUnavailable(err error) bool {
	var se *StorageUnavailableError
	return errors.As(err, &se)
}

func unavailable(op, key string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Op: op, Key: key, Err: err}
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// ValidBackends defines the backends Open understands.
var ValidBackends = []string{BackendSQLite, BackendFile}

// Open opens the named backend at path: a database file for sqlite, a
// directory for file.
func Open(backend, path string) (Slot, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	default:
		return nil, fmt.Errorf("unknown slot backend %q: must be one of %v", backend, ValidBackends)
	}
}
