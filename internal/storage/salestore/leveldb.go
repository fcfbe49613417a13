package salestore

import (
	"fmt"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBBackend implements a LevelDB storage backend. It trades some
// write throughput against pebble for a smaller footprint.
type LevelDBBackend struct {
	db     *leveldb.DB
	config *Config

	open int64 // atomic flag for open state
}

// NewLevelDBBackend creates a new LevelDB backend.
func NewLevelDBBackend(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &LevelDBBackend{config: config}, nil
}

// Name returns the name of this backend.
func (l *LevelDBBackend) Name() string {
	return fmt.Sprintf("leveldb(%s)", l.config.Path)
}

// Open opens the backend for use.
func (l *LevelDBBackend) Open(createIfMissing bool) error {
	if !atomic.CompareAndSwapInt64(&l.open, 0, 1) {
		return ErrBackendOpen
	}

	opts := &opt.Options{
		ErrorIfMissing: !createIfMissing,
	}
	db, err := leveldb.OpenFile(l.config.Path, opts)
	if err != nil {
		atomic.StoreInt64(&l.open, 0)
		return fmt.Errorf("failed to open leveldb at %s: %w", l.config.Path, err)
	}

	l.db = db
	return nil
}

// Close closes the backend.
func (l *LevelDBBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&l.open, 1, 0) {
		return nil
	}
	return l.db.Close()
}

// Fetch retrieves a record by key.
func (l *LevelDBBackend) Fetch(key Key) ([]byte, error) {
	if atomic.LoadInt64(&l.open) == 0 {
		return nil, ErrBackendClosed
	}

	value, err := l.db.Get(key[:], nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb fetch: %w", err)
	}
	return value, nil
}

// Has reports record presence.
func (l *LevelDBBackend) Has(key Key) (bool, error) {
	if atomic.LoadInt64(&l.open) == 0 {
		return false, ErrBackendClosed
	}

	ok, err := l.db.Has(key[:], nil)
	if err != nil {
		return false, fmt.Errorf("leveldb has: %w", err)
	}
	return ok, nil
}

// Store saves a record.
func (l *LevelDBBackend) Store(key Key, value []byte) error {
	if atomic.LoadInt64(&l.open) == 0 {
		return ErrBackendClosed
	}

	wo := &opt.WriteOptions{Sync: l.config.SyncWrites}
	if err := l.db.Put(key[:], value, wo); err != nil {
		return fmt.Errorf("leveldb store: %w", err)
	}
	return nil
}

// Sync flushes pending writes. LevelDB flushes per-write when
// SyncWrites is set, so this only has work to do otherwise.
func (l *LevelDBBackend) Sync() error {
	if atomic.LoadInt64(&l.open) == 0 {
		return ErrBackendClosed
	}
	// Write an empty sync batch to force a durable WAL flush.
	return l.db.Write(new(leveldb.Batch), &opt.WriteOptions{Sync: true})
}

// ForEach iterates over all records.
func (l *LevelDBBackend) ForEach(fn func(key Key, value []byte) error) error {
	if atomic.LoadInt64(&l.open) == 0 {
		return ErrBackendClosed
	}

	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
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
