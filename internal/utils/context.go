// Package utils provides general-purpose helper utilities used across the
// server: context keys, password hashing, JWT token generation and
// validation, JSON response writing, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user id in the
// request context. Used together with GetUserIDFromContext for type-safe
// retrieval.
var UserIDCtxKey = contextKey("userID")

// ClientIDCtxKey is the key under which the auth middleware stores the
// caller's X-Client-Id header, used for own-echo suppression on watch
// broadcasts.
var ClientIDCtxKey = contextKey("clientID")

// GetUserIDFromContext retrieves the authenticated user id from the context.
// The ok flag is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// GetClientIDFromContext retrieves the caller's client id from the context.
// Empty when the caller did not send one.
func GetClientIDFromContext(ctx context.Context) string {
	clientID, _ := ctx.Value(ClientIDCtxKey).(string)
	return clientID
}
