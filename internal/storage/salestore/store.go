package salestore

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/curvemint/curved/internal/storage/salestore/compression"
)

// Record encoding: a one-byte flag, then for compressed records the
// big-endian uncompressed length, then the payload.
const (
	recordRaw        byte = 0
	recordCompressed byte = 1

	recordHeaderSize = 1 + 4

	// minCompressSize keeps tiny records raw; the block header would
	// cost more than it saves.
	minCompressSize = 64
)

// Store is the persistent sale ledger: a caching, compressing facade
// over a storage Backend. Its Read/Exists/Write methods satisfy the
// engine's state view contract.
type Store struct {
	backend    Backend
	cache      *lru.Cache[Key, []byte]
	compressor compression.Compressor
	// decompressor decodes compressed records regardless of the
	// configured write-side compressor, so a store reopened with
	// compression disabled still reads its old records.
	decompressor compression.Compressor
	config       *Config

	stats struct {
		reads       uint64
		cacheHits   uint64
		cacheMisses uint64
		writes      uint64
		readBytes   uint64
		writeBytes  uint64
	}
}

// New creates a store from the default configuration modified by the
// given options, creates the configured backend and opens it.
func New(options ...Option) (*Store, error) {
	config := DefaultConfig()
	config.ApplyOptions(options...)
	return NewWithConfig(config)
}

// NewWithConfig creates a store from an explicit configuration.
func NewWithConfig(config *Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	compressor, err := compression.Get(config.Compressor)
	if err != nil {
		return nil, fmt.Errorf("failed to get compressor %s: %w", config.Compressor, err)
	}
	decompressor, err := compression.Get("lz4")
	if err != nil {
		return nil, err
	}

	backend, err := CreateBackend(config.Backend, config)
	if err != nil {
		return nil, err
	}
	if err := backend.Open(config.CreateIfMissing); err != nil {
		return nil, err
	}

	s := &Store{
		backend:      backend,
		compressor:   compressor,
		decompressor: decompressor,
		config:       config,
	}
	if config.CacheSize > 0 {
		cache, err := lru.New[Key, []byte](config.CacheSize)
		if err != nil {
			backend.Close()
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// Read returns the entry bytes, or nil if the entry is absent.
func (s *Store) Read(key Key) ([]byte, error) {
	atomic.AddUint64(&s.stats.reads, 1)

	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			atomic.AddUint64(&s.stats.cacheHits, 1)
			return data, nil
		}
		atomic.AddUint64(&s.stats.cacheMisses, 1)
	}

	record, err := s.backend.Fetch(key)
	if err == ErrEntryNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := s.decodeRecord(record)
	if err != nil {
		return nil, err
	}
	atomic.AddUint64(&s.stats.readBytes, uint64(len(data)))

	if s.cache != nil {
		s.cache.Add(key, data)
	}
	return data, nil
}

// Exists reports whether an entry is present.
func (s *Store) Exists(key Key) (bool, error) {
	if s.cache != nil && s.cache.Contains(key) {
		return true, nil
	}
	return s.backend.Has(key)
}

// Write inserts or replaces an entry.
func (s *Store) Write(key Key, data []byte) error {
	record, err := s.encodeRecord(data)
	if err != nil {
		return err
	}
	if err := s.backend.Store(key, record); err != nil {
		return err
	}

	atomic.AddUint64(&s.stats.writes, 1)
	atomic.AddUint64(&s.stats.writeBytes, uint64(len(data)))

	if s.cache != nil {
		s.cache.Add(key, data)
	}
	return nil
}

// Sync forces pending writes to stable storage.
func (s *Store) Sync() error {
	return s.backend.Sync()
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Purge()
	}
	return s.backend.Close()
}

// Stats returns performance statistics.
func (s *Store) Stats() Statistics {
	return Statistics{
		Reads:       atomic.LoadUint64(&s.stats.reads),
		CacheHits:   atomic.LoadUint64(&s.stats.cacheHits),
		CacheMisses: atomic.LoadUint64(&s.stats.cacheMisses),
		Writes:      atomic.LoadUint64(&s.stats.writes),
		ReadBytes:   atomic.LoadUint64(&s.stats.readBytes),
		WriteBytes:  atomic.LoadUint64(&s.stats.writeBytes),
		BackendName: s.backend.Name(),
	}
}

// ForEach iterates over all decoded entries in the backend.
func (s *Store) ForEach(fn func(key Key, data []byte) error) error {
	return s.backend.ForEach(func(key Key, record []byte) error {
		data, err := s.decodeRecord(record)
		if err != nil {
			return err
		}
		return fn(key, data)
	})
}

func (s *Store) encodeRecord(data []byte) ([]byte, error) {
	if len(data) >= minCompressSize && s.compressor.Name() != "none" {
		compressed, err := s.compressor.Compress(data, s.config.CompressionLevel)
		if err == nil && len(compressed) > 0 && len(compressed)+recordHeaderSize < len(data)+1 {
			record := make([]byte, recordHeaderSize+len(compressed))
			record[0] = recordCompressed
			binary.BigEndian.PutUint32(record[1:recordHeaderSize], uint32(len(data)))
			copy(record[recordHeaderSize:], compressed)
			return record, nil
		}
		// Incompressible or failed: fall through and store raw.
	}

	record := make([]byte, 1+len(data))
	record[0] = recordRaw
	copy(record[1:], data)
	return record, nil
}

func (s *Store) decodeRecord(record []byte) ([]byte, error) {
	if len(record) < 1 {
		return nil, fmt.Errorf("%w: empty record", ErrDataCorrupt)
	}

	switch record[0] {
	case recordRaw:
		return record[1:], nil
	case recordCompressed:
		if len(record) < recordHeaderSize {
			return nil, fmt.Errorf("%w: truncated record header", ErrDataCorrupt)
		}
		originalSize := binary.BigEndian.Uint32(record[1:recordHeaderSize])
		data, err := s.decompressor.Decompress(record[recordHeaderSize:], int(originalSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown record flag %d", ErrDataCorrupt, record[0])
	}
}
