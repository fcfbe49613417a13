package salestore

import (
	"sync"
	"sync/atomic"
)

// MemoryBackend implements an in-memory Backend, used for tests and
// ephemeral deployments.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[Key][]byte

	open int64 // atomic flag for open state
}

// NewMemoryBackend creates a new in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[Key][]byte),
	}
}

// NewMemoryBackendFromConfig creates a new in-memory backend from
// config. The config is ignored but required for the BackendFactory
// signature.
func NewMemoryBackendFromConfig(config *Config) (Backend, error) {
	return NewMemoryBackend(), nil
}

// Name returns the name of this backend.
func (m *MemoryBackend) Name() string {
	return "memory"
}

// Open opens the backend for use.
func (m *MemoryBackend) Open(createIfMissing bool) error {
	if !atomic.CompareAndSwapInt64(&m.open, 0, 1) {
		return ErrBackendOpen
	}
	return nil
}

// Close closes the backend and clears all data.
func (m *MemoryBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&m.open, 1, 0) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[Key][]byte)
	return nil
}

// Fetch retrieves a record by key.
func (m *MemoryBackend) Fetch(key Key) ([]byte, error) {
	if atomic.LoadInt64(&m.open) == 0 {
		return nil, ErrBackendClosed
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrEntryNotFound
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Has reports record presence.
func (m *MemoryBackend) Has(key Key) (bool, error) {
	if atomic.LoadInt64(&m.open) == 0 {
		return false, ErrBackendClosed
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

// Store saves a record.
func (m *MemoryBackend) Store(key Key, value []byte) error {
	if atomic.LoadInt64(&m.open) == 0 {
		return ErrBackendClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = stored
	return nil
}

// Sync is a no-op for the memory backend.
func (m *MemoryBackend) Sync() error {
	if atomic.LoadInt64(&m.open) == 0 {
		return ErrBackendClosed
	}
	return nil
}

// ForEach iterates over all records.
func (m *MemoryBackend) ForEach(fn func(key Key, value []byte) error) error {
	if atomic.LoadInt64(&m.open) == 0 {
		return ErrBackendClosed
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for key, value := range m.data {
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}
