package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile is the main configuration file name.
const DefaultConfigFile = "curved.toml"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (curved.toml), optional
// 3. Environment variables (CURVED_ prefix)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load the configuration file when present
	loadedPath, err := loadMainConfig(v, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix("CURVED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into the struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = loadedPath

	// 5. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadMainConfig reads the configuration file into viper. An explicitly
// given path must exist; the default path is optional.
func loadMainConfig(v *viper.Viper, configPath string) (string, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return "", fmt.Errorf("config file does not exist: %s", configPath)
		}
		return "", nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return configPath, nil
}

// LoadDefaultConfig loads configuration from the default locations.
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig("")
}
