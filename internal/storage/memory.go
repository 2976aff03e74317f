// Package storage provides the in-memory and directory-backed KVStore
// implementations.
package storage

import (
	"regexp"
	"sync"

	"github.com/teachingtorch/torch/pkg/types"
)

// validKey restricts keys to names that are safe as file names.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// checkKey returns ErrInvalidKey for keys outside validKey.
func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return types.ErrInvalidKey
	}
	return nil
}

// Memory is a KVStore held entirely in process memory. It is the backend
// used by tests and by the "memory" config backend.
type Memory struct {
	mu     sync.RWMutex
	closed bool
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", types.ErrStoreClosed
	}
	v, ok := m.values[key]
	if !ok {
		return "", types.ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (m *Memory) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	delete(m.values, key)
	return nil
}

// Close marks the store closed. Idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
