package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT token with convenience accessors for authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
type Token struct {
	// Token is the underlying JWT token used for signing and claim
	// inspection. Excluded from JSON serialization because only the compact
	// string form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the subject extracted from the "sub" claim, cached so
	// handlers do not re-parse the claim set.
	UserID string `json:"-"`
}

// GetUserID returns the user identifier stored in the token's "sub" claim.
// Returns an error if the subject claim is missing or empty.
func (t *Token) GetUserID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting user id from token: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("token subject is empty")
	}

	return sub, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
