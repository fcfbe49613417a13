// Package config loads and validates the daemon configuration.
package config

import (
	"fmt"
	"time"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/storage/eventdb"
	"github.com/curvemint/curved/internal/storage/salestore"
)

// Config represents the complete daemon configuration.
// This mirrors the structure of curved.toml.
type Config struct {
	// Platform section: the privileged accounts of the deployment.
	Platform PlatformConfig `toml:"platform" mapstructure:"platform"`

	// Store section: the persistent sale state store.
	Store StoreConfig `toml:"store" mapstructure:"store"`

	// Events section: the relational event journal.
	Events EventsConfig `toml:"events" mapstructure:"events"`

	// RPC section: the HTTP JSON-RPC server.
	RPC RPCConfig `toml:"rpc" mapstructure:"rpc"`

	// GRPC section: the gRPC query server.
	GRPC GRPCConfig `toml:"grpc" mapstructure:"grpc"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// PlatformConfig identifies the privileged platform accounts.
type PlatformConfig struct {
	// Owner is the account allowed to change the fee rate and withdraw
	// platform proceeds, 0x-prefixed hex.
	Owner string `toml:"owner" mapstructure:"owner"`

	// Pool is the account holding unsold token supply, 0x-prefixed hex.
	Pool string `toml:"pool" mapstructure:"pool"`

	// FeeBps is the initial platform fee rate in basis points. It is
	// applied only when the store carries no fee rate yet.
	FeeBps uint32 `toml:"fee_bps" mapstructure:"fee_bps"`
}

// StoreConfig configures the sale state store.
type StoreConfig struct {
	Backend          string `toml:"backend" mapstructure:"backend"`
	Path             string `toml:"path" mapstructure:"path"`
	CacheSize        int    `toml:"cache_size" mapstructure:"cache_size"`
	Compressor       string `toml:"compressor" mapstructure:"compressor"`
	CompressionLevel int    `toml:"compression_level" mapstructure:"compression_level"`
	SyncWrites       bool   `toml:"sync_writes" mapstructure:"sync_writes"`
}

// EventsConfig configures the relational event journal.
type EventsConfig struct {
	// Enabled turns event recording on.
	Enabled bool `toml:"enabled" mapstructure:"enabled"`

	// Driver selects the database driver: sqlite or postgres.
	Driver string `toml:"driver" mapstructure:"driver"`

	// Path is the database file path (sqlite only).
	Path string `toml:"path" mapstructure:"path"`

	// Postgres connection settings.
	Host     string `toml:"host" mapstructure:"host"`
	Port     int    `toml:"port" mapstructure:"port"`
	Database string `toml:"database" mapstructure:"database"`
	Username string `toml:"username" mapstructure:"username"`
	Password string `toml:"password" mapstructure:"password"`
	SSLMode  string `toml:"ssl_mode" mapstructure:"ssl_mode"`
}

// RPCConfig configures the HTTP JSON-RPC server.
type RPCConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr" mapstructure:"addr"`

	// TimeoutSeconds bounds the execution of one request.
	TimeoutSeconds int `toml:"timeout_seconds" mapstructure:"timeout_seconds"`

	// AdminIPs lists client IPs granted the admin role.
	AdminIPs []string `toml:"admin_ips" mapstructure:"admin_ips"`
}

// GRPCConfig configures the gRPC query server.
type GRPCConfig struct {
	// Enabled turns the gRPC server on.
	Enabled bool `toml:"enabled" mapstructure:"enabled"`

	// Addr is the listen address, host:port.
	Addr string `toml:"addr" mapstructure:"addr"`
}

// GetConfigPath returns the path of the loaded configuration file.
// Empty when the configuration came from defaults and environment only.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// OwnerAccount parses the configured owner account.
func (c *Config) OwnerAccount() (sale.AccountID, error) {
	id, err := sale.ParseAccountID(c.Platform.Owner)
	if err != nil {
		return sale.AccountID{}, fmt.Errorf("invalid platform.owner: %w", err)
	}
	return id, nil
}

// PoolAccount parses the configured pool account.
func (c *Config) PoolAccount() (sale.AccountID, error) {
	id, err := sale.ParseAccountID(c.Platform.Pool)
	if err != nil {
		return sale.AccountID{}, fmt.Errorf("invalid platform.pool: %w", err)
	}
	return id, nil
}

// StoreOptions converts the store section into salestore options.
func (c *Config) StoreOptions() *salestore.Config {
	cfg := salestore.DefaultConfig()
	cfg.ApplyOptions(
		salestore.WithBackend(c.Store.Backend),
		salestore.WithPath(c.Store.Path),
		salestore.WithCacheSize(c.Store.CacheSize),
		salestore.WithCompression(c.Store.Compressor, c.Store.CompressionLevel),
		salestore.WithSyncWrites(c.Store.SyncWrites),
	)
	return cfg
}

// EventDBConfig converts the events section into an eventdb config.
// Returns nil when event recording is disabled.
func (c *Config) EventDBConfig() *eventdb.Config {
	if !c.Events.Enabled {
		return nil
	}

	if c.Events.Driver == "postgres" {
		cfg := eventdb.PostgresConfig()
		cfg.Host = c.Events.Host
		cfg.Port = c.Events.Port
		cfg.Database = c.Events.Database
		cfg.Username = c.Events.Username
		cfg.Password = c.Events.Password
		if c.Events.SSLMode != "" {
			cfg.SSLMode = c.Events.SSLMode
		}
		return cfg
	}

	return eventdb.SQLiteConfig(c.Events.Path)
}

// RPCTimeout returns the request timeout as a duration.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPC.TimeoutSeconds) * time.Second
}
