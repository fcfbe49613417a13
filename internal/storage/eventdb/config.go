package eventdb

import (
	"fmt"
	"net/url"
	"time"
)

// Config contains event database configuration settings.
type Config struct {
	// Database connection settings.
	Driver           string `json:"driver" yaml:"driver"`
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
	Host             string `json:"host" yaml:"host"`
	Port             int    `json:"port" yaml:"port"`
	Database         string `json:"database" yaml:"database"`
	Username         string `json:"username" yaml:"username"`
	Password         string `json:"password" yaml:"password"`
	SSLMode          string `json:"ssl_mode" yaml:"ssl_mode"`

	// Connection pool settings.
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`

	// DefaultTimeout bounds individual statements.
	DefaultTimeout time.Duration `json:"default_timeout" yaml:"default_timeout"`

	// EnableWALMode turns on SQLite write-ahead logging.
	EnableWALMode bool `json:"enable_wal_mode" yaml:"enable_wal_mode"`
}

// NewConfig creates a new Config with sensible defaults: a local SQLite
// file, which needs no external service.
func NewConfig() *Config {
	return &Config{
		Driver:          "sqlite",
		Database:        "./events.db",
		SSLMode:         "prefer",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  time.Second * 30,
		EnableWALMode:   true,
	}
}

// PostgresConfig creates a PostgreSQL-specific configuration.
func PostgresConfig() *Config {
	config := NewConfig()
	config.Driver = "postgres"
	config.Host = "localhost"
	config.Port = 5432
	config.Database = "curved"
	config.MaxOpenConns = 10
	config.MaxIdleConns = 5
	return config
}

// SQLiteConfig creates a SQLite configuration for the given path.
func SQLiteConfig(dbPath string) *Config {
	config := NewConfig()
	config.Database = dbPath
	return config
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "postgresql":
		c.Driver = "postgres"
	case "sqlite", "sqlite3":
		c.Driver = "sqlite"
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.Driver == "postgres" {
		if c.ConnectionString == "" {
			if c.Host == "" {
				return ErrMissingHost
			}
			if c.Port <= 0 || c.Port > 65535 {
				return ErrInvalidPort
			}
			if c.Username == "" {
				return ErrMissingUsername
			}
		}
		switch c.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
		}
	}
	if c.Database == "" && c.ConnectionString == "" {
		return ErrMissingDatabase
	}

	if c.MaxOpenConns < 0 {
		return ErrInvalidMaxOpenConns
	}
	if c.MaxIdleConns < 0 {
		return ErrInvalidMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns && c.MaxOpenConns > 0 {
		return ErrMaxIdleExceedsMaxOpen
	}
	if c.DefaultTimeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// BuildConnectionString builds a connection string from the config.
func (c *Config) BuildConnectionString() (string, error) {
	if c.ConnectionString != "" {
		return c.ConnectionString, nil
	}

	switch c.Driver {
	case "postgres":
		return c.buildPostgresConnectionString(), nil
	case "sqlite":
		return c.buildSQLiteConnectionString(), nil
	default:
		return "", fmt.Errorf("unsupported driver for connection string building: %s", c.Driver)
	}
}

func (c *Config) buildPostgresConnectionString() string {
	params := url.Values{}
	params.Set("sslmode", c.SSLMode)
	params.Set("connect_timeout", "30")
	params.Set("application_name", "curved-eventdb")

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: params.Encode(),
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	return u.String()
}

func (c *Config) buildSQLiteConnectionString() string {
	dsn := c.Database

	params := url.Values{}
	if c.EnableWALMode {
		params.Set("_pragma", "journal_mode(WAL)")
	}
	if len(params) > 0 {
		dsn += "?" + params.Encode()
	}
	return dsn
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
