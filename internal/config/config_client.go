package config

import (
	"fmt"
	"time"
)

// Client-side defaults.
const (
	DefaultStorePath      = "choplist.json"
	DefaultAdapterTimeout = 15 * time.Second
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL or host:port of the space server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientStorage groups client file-system settings.
type ClientStorage struct {
	// StorePath is the path of the persisted JSON store.
	StorePath string
	// LogPath is the path of the log file; empty logs to stderr.
	LogPath string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client file paths.
	Storage ClientStorage
	// Version is the reported application version.
	Version string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			StorePath: cfg.Storage.Files.StorePath,
			LogPath:   cfg.Storage.Files.LogPath,
		},
		Version: cfg.App.Version,
	}

	if clientCfg.Storage.StorePath == "" {
		clientCfg.Storage.StorePath = DefaultStorePath
	}
	if clientCfg.Adapter.RequestTimeout <= 0 {
		clientCfg.Adapter.RequestTimeout = DefaultAdapterTimeout
	}

	return clientCfg
}
