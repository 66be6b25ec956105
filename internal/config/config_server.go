package config

import (
	"fmt"
	"time"
)

// Defaults applied when neither env, flags, nor the JSON file set a value.
const (
	DefaultServerAddress  = ":8080"
	DefaultDatabaseDSN    = "choplist.db"
	DefaultTokenIssuer    = "choplist"
	DefaultTokenDuration  = 24 * time.Hour
	DefaultRequestTimeout = 30 * time.Second
)

// ServerConfig is the space server's view of the merged configuration.
type ServerConfig struct {
	// HTTPAddress is the TCP listen address of the HTTP server.
	HTTPAddress string
	// DatabaseDSN is the SQLite data source name.
	DatabaseDSN string
	// TokenSignKey signs and verifies session tokens.
	TokenSignKey string
	// TokenIssuer is the "iss" claim of issued tokens.
	TokenIssuer string
	// TokenDuration is the token validity window.
	TokenDuration time.Duration
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
	// Version is the reported application version.
	Version string
}

// GetServerConfig builds and validates the server-specific config view from
// the merged structured configuration, filling defaults for unset fields.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		DatabaseDSN:    cfg.Storage.DB.DSN,
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
		TokenDuration:  cfg.App.TokenDuration,
		RequestTimeout: cfg.Server.RequestTimeout,
		Version:        cfg.App.Version,
	}

	if serverCfg.HTTPAddress == "" {
		serverCfg.HTTPAddress = DefaultServerAddress
	}
	if serverCfg.DatabaseDSN == "" {
		serverCfg.DatabaseDSN = DefaultDatabaseDSN
	}
	if serverCfg.TokenIssuer == "" {
		serverCfg.TokenIssuer = DefaultTokenIssuer
	}
	if serverCfg.TokenDuration <= 0 {
		serverCfg.TokenDuration = DefaultTokenDuration
	}
	if serverCfg.RequestTimeout <= 0 {
		serverCfg.RequestTimeout = DefaultRequestTimeout
	}

	return serverCfg
}
