package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header.
var (
	// ErrEmptyAuthorizationHeader is returned when the incoming request does
	// not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNotASpaceMember is returned when an authenticated user touches a
	// space they do not belong to.
	ErrNotASpaceMember = errors.New("not a member of this space")
)
