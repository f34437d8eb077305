package slot

import (
	"context"
	"errors"
	"sync"
)

// Memory is an in-process Slot. FailReads and FailWrites make the next
// operations fail with a StorageUnavailableError wrapping the given error,
// which lets tests exercise the recovery paths of the overlay store.
type Memory struct {
	mu       sync.Mutex
	values   map[string]string
	readErr  error
	writeErr error
	writes   int
	closed   bool
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Read returns the stored value or ErrNotFound.
func (m *Memory) Read(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", unavailable("read", key, errors.New("slot closed"))
	}
	if m.readErr != nil {
		return "", unavailable("read", key, m.readErr)
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Write stores value under key.
func (m *Memory) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return unavailable("write", key, errors.New("slot closed"))
	}
	if m.writeErr != nil {
		return unavailable("write", key, m.writeErr)
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Close marks the slot closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Set stores a raw value directly, bypassing fault injection.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get returns the raw value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// FailReads makes every Read fail with err. A nil err clears the fault.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes every Write fail with err. A nil err clears the fault.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
