// Package config loads the configuration of both binaries from environment
// variables, command-line flags, and an optional JSON file, merged in that
// priority order. GetServerConfig and GetClientConfig expose per-binary views
// of the merged result with defaults applied and invariants validated.
package config
