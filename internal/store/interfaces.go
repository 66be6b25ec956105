// Package store holds the space server's SQLite repositories: user accounts,
// space documents with their member sets, the per-space item and recipe
// collections, and invites.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Fenner314/chop-list-sub000/models"
)

// UserRecord is the server-side user row, including the credential hash that
// never leaves this package's callers.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// User strips the record down to its transportable form.
func (u UserRecord) User() models.User {
	return models.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// InviteFilter narrows an invite listing. Zero-valued fields are not applied;
// email matching is case-insensitive at the schema level.
type InviteFilter struct {
	SpaceID string
	Email   string
	Status  models.InviteStatus
}

type UserRepository interface {
	CreateUser(ctx context.Context, user UserRecord) (UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (UserRecord, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type SpaceRepository interface {
	UpsertSpace(ctx context.Context, space models.Space) error
	GetSpace(ctx context.Context, spaceID string) (models.Space, error)
	SpacesForUser(ctx context.Context, userID string) ([]models.Space, error)
	SetPaused(ctx context.Context, spaceID string, paused bool) error

	AddMember(ctx context.Context, member models.Member) error
	RemoveMember(ctx context.Context, spaceID, userID string) error
	Members(ctx context.Context, spaceID string) ([]models.Member, error)
}

// DocRepository stores one JSON document collection (items or recipes) keyed
// by (space id, document id). Documents are opaque to the server.
type DocRepository interface {
	Upsert(ctx context.Context, spaceID, docID string, doc json.RawMessage) error
	UpsertBatch(ctx context.Context, spaceID string, docs map[string]json.RawMessage) error
	Delete(ctx context.Context, spaceID, docID string) error
	DeleteAll(ctx context.Context, spaceID string) error
	List(ctx context.Context, spaceID string) ([]json.RawMessage, error)
}

type InviteRepository interface {
	Create(ctx context.Context, invite models.Invite) error
	Get(ctx context.Context, inviteID string) (models.Invite, error)
	Find(ctx context.Context, filter InviteFilter) ([]models.Invite, error)
	SetStatus(ctx context.Context, inviteID string, status models.InviteStatus) error
	Delete(ctx context.Context, inviteID string) error
}
