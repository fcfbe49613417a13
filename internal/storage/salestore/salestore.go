// Package salestore provides the persistent key-value storage for the
// sale ledger. Entries are opaque byte records under 32-byte keys, with
// an LRU read cache and optional transparent compression in front of a
// pluggable storage backend.
package salestore

// Key is the 32-byte storage key of a ledger entry.
type Key = [32]byte

// Backend defines the interface for storage backends.
type Backend interface {
	// Name returns a human-readable name for this backend.
	Name() string

	// Open opens the backend for use.
	Open(createIfMissing bool) error

	// Close closes the backend and releases resources.
	Close() error

	// Fetch retrieves the raw record under key. Absent keys report
	// ErrEntryNotFound.
	Fetch(key Key) ([]byte, error)

	// Has reports whether a record exists under key.
	Has(key Key) (bool, error)

	// Store saves a record, replacing any existing one.
	Store(key Key, value []byte) error

	// Sync forces pending writes to be flushed.
	Sync() error

	// ForEach iterates over all records in the backend.
	ForEach(fn func(key Key, value []byte) error) error
}

// Statistics holds performance metrics for a Store.
type Statistics struct {
	Reads       uint64
	CacheHits   uint64
	CacheMisses uint64
	Writes      uint64
	ReadBytes   uint64
	WriteBytes  uint64
	BackendName string
}
