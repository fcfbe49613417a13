package eventdb

import "errors"

var (
	// ErrMissingHost indicates a postgres config without a host.
	ErrMissingHost = errors.New("database host must be specified")

	// ErrInvalidPort indicates an out-of-range port.
	ErrInvalidPort = errors.New("database port must be between 1 and 65535")

	// ErrMissingDatabase indicates a config without a database name.
	ErrMissingDatabase = errors.New("database name must be specified")

	// ErrMissingUsername indicates a postgres config without a user.
	ErrMissingUsername = errors.New("database username must be specified")

	// ErrInvalidMaxOpenConns indicates a negative pool size.
	ErrInvalidMaxOpenConns = errors.New("max_open_conns must be non-negative")

	// ErrInvalidMaxIdleConns indicates a negative idle pool size.
	ErrInvalidMaxIdleConns = errors.New("max_idle_conns must be non-negative")

	// ErrMaxIdleExceedsMaxOpen indicates inconsistent pool sizes.
	ErrMaxIdleExceedsMaxOpen = errors.New("max_idle_conns must not exceed max_open_conns")

	// ErrInvalidTimeout indicates a non-positive statement timeout.
	ErrInvalidTimeout = errors.New("default_timeout must be positive")

	// ErrNotOpen indicates use of a store before Open.
	ErrNotOpen = errors.New("event database is not open")
)
