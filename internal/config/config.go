package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// space server and the client. It is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the server database and the client store file settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the space
	// server's HTTP listener.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client-side settings for reaching the space server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds token lifecycle and versioning values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "24h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the persistence settings of both binaries.
type Storage struct {
	// DB holds the server's SQLite connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the client's local file paths.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the server's SQLite database.
type DB struct {
	// DSN is the SQLite data source name, usually a file path
	// (e.g. "choplist.db" or "file:choplist.db?_fk=1").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds the client's local file-system paths.
type Files struct {
	// StorePath is the path of the client's persisted JSON store.
	// Env: STORAGE_FILES_STORE_PATH
	StorePath string `env:"STORE_PATH"`

	// LogPath is the path of the client's log file. Empty logs to stderr.
	// Env: STORAGE_FILES_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client-side transport settings for the space server.
type Adapter struct {
	// HTTPAddress is the base URL or host:port of the space server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the default timeout for outbound client requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
