// Package server wires and runs the space server's HTTP transport.
//
// It owns the server lifecycle: startup, signal handling, and graceful
// shutdown of in-flight requests and watch streams.
package server
