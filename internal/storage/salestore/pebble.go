package salestore

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

// PebbleBackend implements a PebbleDB storage backend. It is the
// default for durable deployments.
type PebbleBackend struct {
	db     *pebble.DB
	config *Config

	open int64 // atomic flag for open state
}

// NewPebbleBackend creates a new PebbleDB backend.
func NewPebbleBackend(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &PebbleBackend{config: config}, nil
}

// Name returns the name of this backend.
func (p *PebbleBackend) Name() string {
	return fmt.Sprintf("pebble(%s)", p.config.Path)
}

// Open opens the backend for use.
func (p *PebbleBackend) Open(createIfMissing bool) error {
	if !atomic.CompareAndSwapInt64(&p.open, 0, 1) {
		return ErrBackendOpen
	}

	if createIfMissing {
		if err := os.MkdirAll(p.config.Path, 0755); err != nil {
			atomic.StoreInt64(&p.open, 0)
			return fmt.Errorf("failed to create directory %s: %w", p.config.Path, err)
		}
	}

	db, err := pebble.Open(p.config.Path, p.buildOptions(createIfMissing))
	if err != nil {
		atomic.StoreInt64(&p.open, 0)
		return fmt.Errorf("failed to open pebble at %s: %w", p.config.Path, err)
	}

	p.db = db
	return nil
}

// buildOptions tunes pebble for the sale ledger access pattern: small
// fixed-size keys, point lookups only, no range scans on the hot path.
func (p *PebbleBackend) buildOptions(createIfMissing bool) *pebble.Options {
	opts := &pebble.Options{
		ErrorIfNotExists:            !createIfMissing,
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       2,
		L0StopWritesThreshold:       32,
		MaxOpenFiles:                512,
	}
	opts.Levels = make([]pebble.LevelOptions, 1)
	opts.Levels[0].FilterPolicy = bloom.FilterPolicy(10)
	opts.EnsureDefaults()
	return opts
}

// Close closes the backend.
func (p *PebbleBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&p.open, 1, 0) {
		return nil
	}
	return p.db.Close()
}

// Fetch retrieves a record by key.
func (p *PebbleBackend) Fetch(key Key) ([]byte, error) {
	if atomic.LoadInt64(&p.open) == 0 {
		return nil, ErrBackendClosed
	}

	value, closer, err := p.db.Get(key[:])
	if err == pebble.ErrNotFound {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble fetch: %w", err)
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Has reports record presence.
func (p *PebbleBackend) Has(key Key) (bool, error) {
	_, err := p.Fetch(key)
	if err == ErrEntryNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Store saves a record.
func (p *PebbleBackend) Store(key Key, value []byte) error {
	if atomic.LoadInt64(&p.open) == 0 {
		return ErrBackendClosed
	}

	wo := pebble.NoSync
	if p.config.SyncWrites {
		wo = pebble.Sync
	}
	if err := p.db.Set(key[:], value, wo); err != nil {
		return fmt.Errorf("pebble store: %w", err)
	}
	return nil
}

// Sync flushes pending writes.
func (p *PebbleBackend) Sync() error {
	if atomic.LoadInt64(&p.open) == 0 {
		return ErrBackendClosed
	}
	if err := p.db.Flush(); err != nil {
		return fmt.Errorf("pebble sync: %w", err)
	}
	return nil
}

// ForEach iterates over all records.
func (p *PebbleBackend) ForEach(fn func(key Key, value []byte) error) error {
	if atomic.LoadInt64(&p.open) == 0 {
		return ErrBackendClosed
	}

	iter, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		raw := iter.Key()
		if len(raw) != len(Key{}) {
			return fmt.Errorf("%w: key length %d", ErrDataCorrupt, len(raw))
		}
		var key Key
		copy(key[:], raw)

		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())

		if err := fn(key, value); err != nil {
			return err
		}
	}
	return iter.Error()
}
