package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvemint/curved/internal/core/sale"
)

const (
	ownerHex = "0x00000000000000000000000000000000000000aa"
	poolHex  = "0x00000000000000000000000000000000000000bb"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curved.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func minimalConfig() string {
	return `
[platform]
owner = "` + ownerHex + `"
pool = "` + poolHex + `"
`
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.GetConfigPath())
	assert.Equal(t, "pebble", cfg.Store.Backend)
	assert.Equal(t, "lz4", cfg.Store.Compressor)
	assert.Equal(t, 2000, cfg.Store.CacheSize)
	assert.True(t, cfg.Store.SyncWrites)
	assert.Equal(t, "127.0.0.1:5005", cfg.RPC.Addr)
	assert.Equal(t, 30, cfg.RPC.TimeoutSeconds)
	assert.False(t, cfg.Events.Enabled)
	assert.False(t, cfg.GRPC.Enabled)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfigFile(t, minimalConfig()+`
[store]
backend = "memory"
compressor = "none"

[rpc]
addr = "0.0.0.0:8080"
timeout_seconds = 10
admin_ips = ["192.0.2.1"]

[events]
enabled = true
driver = "sqlite"
path = "events.db"

[grpc]
enabled = true
addr = "127.0.0.1:9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "none", cfg.Store.Compressor)
	assert.Equal(t, "0.0.0.0:8080", cfg.RPC.Addr)
	assert.Equal(t, []string{"192.0.2.1"}, cfg.RPC.AdminIPs)
	assert.True(t, cfg.Events.Enabled)
	require.NotNil(t, cfg.EventDBConfig())
	assert.True(t, cfg.GRPC.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())
	t.Setenv("CURVED_STORE_BACKEND", "leveldb")
	t.Setenv("CURVED_RPC_ADDR", "127.0.0.1:7000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "leveldb", cfg.Store.Backend)
	assert.Equal(t, "127.0.0.1:7000", cfg.RPC.Addr)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadConfigAccounts(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	owner, err := cfg.OwnerAccount()
	require.NoError(t, err)
	assert.Equal(t, sale.AccountID{19: 0xaa}, owner)

	pool, err := cfg.PoolAccount()
	require.NoError(t, err)
	assert.Equal(t, sale.AccountID{19: 0xbb}, pool)
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing owner", mutate: func(c *Config) { c.Platform.Owner = "" }},
		{name: "owner equals pool", mutate: func(c *Config) { c.Platform.Pool = c.Platform.Owner }},
		{name: "fee above limit", mutate: func(c *Config) { c.Platform.FeeBps = sale.MaxFeeBps + 1 }},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "rocksdb" }},
		{name: "bad rpc addr", mutate: func(c *Config) { c.RPC.Addr = "no-port" }},
		{name: "zero timeout", mutate: func(c *Config) { c.RPC.TimeoutSeconds = 0 }},
		{name: "bad admin ip", mutate: func(c *Config) { c.RPC.AdminIPs = []string{"not-an-ip"} }},
		{name: "bad grpc addr", mutate: func(c *Config) {
			c.GRPC.Enabled = true
			c.GRPC.Addr = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, minimalConfig())
			cfg, err := LoadConfig(path)
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestEventDBConfigPostgres(t *testing.T) {
	cfg := &Config{
		Events: EventsConfig{
			Enabled:  true,
			Driver:   "postgres",
			Host:     "db.internal",
			Port:     5433,
			Database: "curved",
			Username: "curved",
			Password: "secret",
			SSLMode:  "require",
		},
	}

	db := cfg.EventDBConfig()
	require.NotNil(t, db)
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, 5433, db.Port)
	assert.Equal(t, "require", db.SSLMode)
	assert.NoError(t, db.Validate())
}
