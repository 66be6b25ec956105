// Package identity is the narrow capability interface the sync core consumes
// from the authentication provider: who is signed in, sign-in/out, and an
// auth-state subscription. Nothing else about the provider may leak into the
// sync core.
package identity

import (
	"context"
	"errors"

	"github.com/Fenner314/chop-list-sub000/models"
)

var (
	// ErrNotSignedIn means an operation requiring a user ran without one.
	ErrNotSignedIn = errors.New("no user is signed in")

	// ErrInvalidCredentials means the provider rejected email/password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken means sign-up hit an existing account.
	ErrEmailTaken = errors.New("an account with this email already exists")
)

//go:generate mockgen -source=provider.go -destination=../mock/identity_mock.go -package=mock

// Provider is the identity collaborator boundary.
type Provider interface {
	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *models.User

	// Token returns the bearer token of the current session, empty when
	// signed out.
	Token() string

	// OnAuthStateChanged registers cb to run on every sign-in and sign-out,
	// with the new user (nil on sign-out). Returns an unsubscribe func.
	OnAuthStateChanged(cb func(*models.User)) func()

	SignUp(ctx context.Context, email, password, displayName string) (models.User, error)
	SignIn(ctx context.Context, email, password string) (models.User, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}
