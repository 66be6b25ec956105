package server

import "errors"

var (
	errNoServerAddress = errors.New("no listen address configured")
)
