package salestore

import (
	"fmt"

	"github.com/curvemint/curved/internal/storage/salestore/compression"
)

// Config holds configuration options for the sale store.
type Config struct {
	// Backend specifies the storage backend to use.
	Backend string `json:"backend" yaml:"backend"`

	// Path specifies the file system path for data storage.
	Path string `json:"path" yaml:"path"`

	// CacheSize is the number of decoded entries kept in memory.
	CacheSize int `json:"cache_size" yaml:"cache_size"`

	// Compressor selects the record compression algorithm.
	Compressor       string `json:"compressor" yaml:"compressor"`
	CompressionLevel int    `json:"compression_level" yaml:"compression_level"`

	// CreateIfMissing controls whether the database is created on open.
	CreateIfMissing bool `json:"create_if_missing" yaml:"create_if_missing"`

	// SyncWrites forces every write to be flushed to stable storage
	// before it is acknowledged.
	SyncWrites bool `json:"sync_writes" yaml:"sync_writes"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:          "pebble",
		Path:             "./salestore",
		CacheSize:        2000,
		Compressor:       "lz4",
		CompressionLevel: 1,
		CreateIfMissing:  true,
		SyncWrites:       true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("%w: backend must be specified", ErrInvalidConfig)
	}
	if c.Backend != "memory" && c.Path == "" {
		return fmt.Errorf("%w: path must be specified", ErrInvalidConfig)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must be non-negative", ErrInvalidConfig)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("%w: compression_level must be between 0 and 9", ErrInvalidConfig)
	}
	if !compression.IsAvailable(c.Compressor) {
		return fmt.Errorf("%w: unsupported compressor: %s", ErrInvalidConfig, c.Compressor)
	}
	return nil
}

// Option represents a functional option for configuring the store.
type Option func(*Config)

// WithBackend sets the storage backend.
func WithBackend(backend string) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithPath sets the storage path.
func WithPath(path string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

// WithCacheSize sets the cache size in entries.
func WithCacheSize(size int) Option {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// WithCompression sets the compression algorithm and level.
func WithCompression(compressor string, level int) Option {
	return func(c *Config) {
		c.Compressor = compressor
		c.CompressionLevel = level
	}
}

// WithCreateIfMissing controls whether the database is created if it
// does not exist.
func WithCreateIfMissing(create bool) Option {
	return func(c *Config) {
		c.CreateIfMissing = create
	}
}

// WithSyncWrites controls durable write acknowledgement.
func WithSyncWrites(sync bool) Option {
	return func(c *Config) {
		c.SyncWrites = sync
	}
}

// ApplyOptions applies the given options to the config.
func (c *Config) ApplyOptions(options ...Option) {
	for _, option := range options {
		option(c)
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("salestore(backend=%s path=%s cache=%d compressor=%s sync=%t)",
		c.Backend, c.Path, c.CacheSize, c.Compressor, c.SyncWrites)
}
