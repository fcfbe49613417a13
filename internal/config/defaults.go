package config

import "github.com/spf13/viper"

// setDefaults sets the built-in default values.
func setDefaults(v *viper.Viper) {
	// Platform defaults. The zero accounts are placeholders that fail
	// validation, so a deployment must configure its own.
	v.SetDefault("platform.owner", "")
	v.SetDefault("platform.pool", "")
	v.SetDefault("platform.fee_bps", 0)

	// Store defaults
	v.SetDefault("store.backend", "pebble")
	v.SetDefault("store.path", "/var/lib/curved/db")
	v.SetDefault("store.cache_size", 2000)
	v.SetDefault("store.compressor", "lz4")
	v.SetDefault("store.compression_level", 0)
	v.SetDefault("store.sync_writes", true)

	// Events defaults
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.driver", "sqlite")
	v.SetDefault("events.path", "/var/lib/curved/events.db")
	v.SetDefault("events.host", "localhost")
	v.SetDefault("events.port", 5432)
	v.SetDefault("events.ssl_mode", "disable")

	// RPC defaults
	v.SetDefault("rpc.addr", "127.0.0.1:5005")
	v.SetDefault("rpc.timeout_seconds", 30)
	v.SetDefault("rpc.admin_ips", []string{})

	// GRPC defaults
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.addr", "127.0.0.1:50051")
}
