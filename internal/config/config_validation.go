package config

import "strings"

// validate checks that the server view satisfies all startup invariants.
func (cfg *ServerConfig) validate() error {
	if cfg.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}

// validate checks that the client view satisfies all startup invariants. The
// space server address stays optional: a client without one simply never
// leaves local mode.
func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.StorePath) == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
