package adapter

import "errors"

var (
	// ErrUnauthorized means the server rejected the bearer token.
	ErrUnauthorized = errors.New("space server rejected credentials")

	// ErrNotFound means the requested document does not exist, e.g. a space
	// that was deleted after an invite to it was sent.
	ErrNotFound = errors.New("remote document not found")

	// ErrForbidden means the caller lacks permission for the operation,
	// e.g. a member writing to a paused space.
	ErrForbidden = errors.New("operation not permitted on this space")
)
