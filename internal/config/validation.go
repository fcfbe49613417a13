package config

import (
	"fmt"
	"net"

	"github.com/curvemint/curved/internal/core/sale"
)

// ValidateConfig performs validation on the complete configuration.
func ValidateConfig(config *Config) error {
	if err := validatePlatform(&config.Platform); err != nil {
		return fmt.Errorf("platform config validation failed: %w", err)
	}

	if err := config.StoreOptions().Validate(); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}

	if cfg := config.EventDBConfig(); cfg != nil {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("events config validation failed: %w", err)
		}
	}

	if err := validateRPC(&config.RPC); err != nil {
		return fmt.Errorf("rpc config validation failed: %w", err)
	}

	if err := validateGRPC(&config.GRPC); err != nil {
		return fmt.Errorf("grpc config validation failed: %w", err)
	}

	return nil
}

func validatePlatform(platform *PlatformConfig) error {
	owner, err := sale.ParseAccountID(platform.Owner)
	if err != nil {
		return fmt.Errorf("invalid owner account: %w", err)
	}
	pool, err := sale.ParseAccountID(platform.Pool)
	if err != nil {
		return fmt.Errorf("invalid pool account: %w", err)
	}
	if owner == pool {
		return fmt.Errorf("owner and pool must be distinct accounts")
	}
	if platform.FeeBps > sale.MaxFeeBps {
		return fmt.Errorf("fee_bps must not exceed %d, got %d", sale.MaxFeeBps, platform.FeeBps)
	}
	return nil
}

func validateRPC(rpc *RPCConfig) error {
	if err := validateListenAddr(rpc.Addr); err != nil {
		return fmt.Errorf("invalid addr: %w", err)
	}
	if rpc.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", rpc.TimeoutSeconds)
	}
	for _, ip := range rpc.AdminIPs {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("invalid admin IP: %s", ip)
		}
	}
	return nil
}

func validateGRPC(grpc *GRPCConfig) error {
	if !grpc.Enabled {
		return nil
	}
	if err := validateListenAddr(grpc.Addr); err != nil {
		return fmt.Errorf("invalid addr: %w", err)
	}
	return nil
}

func validateListenAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("address is required")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	return nil
}
