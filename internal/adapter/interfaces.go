package adapter

import (
	"context"

	"github.com/Fenner314/chop-list-sub000/models"
)

// Unsubscribe tears down one live subscription. Safe to call more than once.
type Unsubscribe func()

// SpaceRepository is the thin CRUD + realtime-subscription abstraction over
// the multi-tenant space store. Every operation is scoped by space id; the
// repository knows nothing about local state or sync policy.
//
// Subscription contract: callbacks receive full authoritative snapshots of
// one collection. A snapshot that merely reflects this client's own
// not-yet-acknowledged write is suppressed by the implementation and never
// delivered — the orchestrator must not be handed an echo of its own
// optimistic write as if it were a foreign update.
//
// Write contract: implementations strip null-valued fields recursively
// before persisting, because the remote store rejects them.
type SpaceRepository interface {
	// SetToken installs the bearer token used for all subsequent calls.
	SetToken(token string)

	// ClientID returns this repository instance's stable client id, sent
	// with every write and used for own-echo suppression.
	ClientID() string

	GetSpace(ctx context.Context, spaceID string) (models.Space, error)
	EnsureSpace(ctx context.Context, space models.Space) error
	SubscribeToSpace(ctx context.Context, spaceID string, cb func(models.Space)) (Unsubscribe, error)

	// GetUserSpaces returns the spaces where userID is a member.
	GetUserSpaces(ctx context.Context, userID string) ([]models.Space, error)
	SubscribeToUserSpaces(ctx context.Context, userID string, cb func([]models.Space)) (Unsubscribe, error)

	SubscribeToItems(ctx context.Context, spaceID string, cb func([]models.Item)) (Unsubscribe, error)
	SubscribeToRecipes(ctx context.Context, spaceID string, cb func([]models.Recipe)) (Unsubscribe, error)
	SubscribeToMembers(ctx context.Context, spaceID string, cb func([]models.Member)) (Unsubscribe, error)

	SetItem(ctx context.Context, spaceID string, item models.Item, actorID string) error
	DeleteItem(ctx context.Context, spaceID, itemID string) error
	BatchSetItems(ctx context.Context, spaceID string, items []models.Item, actorID string) error
	ClearAllItems(ctx context.Context, spaceID string) error

	SetRecipe(ctx context.Context, spaceID string, recipe models.Recipe, actorID string) error
	DeleteRecipe(ctx context.Context, spaceID, recipeID string) error
	BatchSetRecipes(ctx context.Context, spaceID string, recipes []models.Recipe, actorID string) error
	ClearAllRecipes(ctx context.Context, spaceID string) error

	AddMember(ctx context.Context, member models.Member) error
	RemoveMember(ctx context.Context, spaceID, userID string) error
	PauseSharing(ctx context.Context, spaceID string) error
	ResumeSharing(ctx context.Context, spaceID string) error

	CreateInvite(ctx context.Context, invite models.Invite) error
	Invite(ctx context.Context, inviteID string) (models.Invite, error)
	InvitesBySpace(ctx context.Context, spaceID string, status models.InviteStatus) ([]models.Invite, error)
	InvitesByEmail(ctx context.Context, email string, status models.InviteStatus) ([]models.Invite, error)
	SetInviteStatus(ctx context.Context, inviteID string, status models.InviteStatus) error
	DeleteInvite(ctx context.Context, inviteID string) error
}
