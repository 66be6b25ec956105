package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing application-level settings
	// (for example, an empty token sign key on the server).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or store path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
