package salestore

import "errors"

var (
	// ErrEntryNotFound indicates that a requested entry was not found.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrBackendClosed indicates that the backend is closed.
	ErrBackendClosed = errors.New("backend is closed")

	// ErrBackendOpen indicates an Open call on an already open backend.
	ErrBackendOpen = errors.New("backend is already open")

	// ErrDataCorrupt indicates that a stored record cannot be decoded.
	ErrDataCorrupt = errors.New("data corruption detected")

	// ErrInvalidConfig indicates that the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)
