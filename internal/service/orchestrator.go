package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/internal/localstore"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// Orchestrator binds one user id and at most one space id to a set of live
// subscriptions against the space repository and routes inbound snapshots
// into the local store.
//
// State machine:
//
//	detached        — no user, no subscriptions
//	user-bound      — subscribed to the user's spaces list only
//	space-bound     — additionally subscribed to the space's items/recipes
//
// Inbound item/recipe snapshots are applied as whole-collection replace
// commands tagged with remote provenance, so the change interceptor sees
// them synchronously as non-local and never echoes them back out.
type Orchestrator struct {
	repo  adapter.SpaceRepository
	store *localstore.Store
	log   *logger.Logger

	mu           sync.Mutex
	userID       string
	spaceID      string
	spacesUnsub  adapter.Unsubscribe
	itemsUnsub   adapter.Unsubscribe
	recipesUnsub adapter.Unsubscribe
}

// NewOrchestrator constructs an orchestrator with injected dependencies.
// Multiple independent instances can coexist; nothing is process-global.
func NewOrchestrator(repo adapter.SpaceRepository, store *localstore.Store, log *logger.Logger) *Orchestrator {
	return &Orchestrator{repo: repo, store: store, log: log}
}

// SetUser binds userID. Setting the current id again is a no-op; a changed
// id tears down every subscription first, then re-subscribes to the new
// user's spaces list. An empty id detaches completely.
func (o *Orchestrator) SetUser(ctx context.Context, userID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if userID == o.userID {
		return nil
	}

	o.teardownAllLocked()
	o.userID = userID
	if userID == "" {
		return nil
	}

	unsub, err := o.repo.SubscribeToUserSpaces(ctx, userID, func(spaces []models.Space) {
		o.store.Dispatch(localstore.SetAvailableSpaces{Provenance: localstore.Remote, Spaces: spaces})
	})
	if err != nil {
		o.store.Dispatch(localstore.SetSyncStatus{Provenance: localstore.Remote, Status: models.SyncError})
		return fmt.Errorf("subscribe to spaces of user %s: %w", userID, err)
	}
	o.spacesUnsub = unsub

	o.log.Info().Str("user", userID).Msg("bound sync user")
	return nil
}

// StartSync binds spaceID and subscribes to its items and recipes. Only the
// item/recipe subscriptions are torn down first; the user's space-list
// subscription persists across space switches.
func (o *Orchestrator) StartSync(ctx context.Context, spaceID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.userID == "" {
		return ErrNoUserBound
	}

	o.teardownSpaceLocked()
	o.spaceID = spaceID

	itemsUnsub, err := o.repo.SubscribeToItems(ctx, spaceID, o.ingestItems)
	if err != nil {
		o.spaceID = ""
		o.store.Dispatch(localstore.SetSyncStatus{Provenance: localstore.Remote, Status: models.SyncError})
		return fmt.Errorf("subscribe to items of space %s: %w", spaceID, err)
	}

	recipesUnsub, err := o.repo.SubscribeToRecipes(ctx, spaceID, o.ingestRecipes)
	if err != nil {
		itemsUnsub()
		o.spaceID = ""
		o.store.Dispatch(localstore.SetSyncStatus{Provenance: localstore.Remote, Status: models.SyncError})
		return fmt.Errorf("subscribe to recipes of space %s: %w", spaceID, err)
	}

	o.itemsUnsub = itemsUnsub
	o.recipesUnsub = recipesUnsub

	o.log.Info().Str("space", spaceID).Msg("space sync started")
	return nil
}

// StopSync tears down every subscription and clears the bound space. The
// user binding itself is cleared separately via SetUser.
func (o *Orchestrator) StopSync() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teardownAllLocked()
}

// BoundSpace returns the currently bound space id, empty when none.
func (o *Orchestrator) BoundSpace() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.spaceID
}

// ingestItems applies an authoritative items snapshot: the whole local
// collection is replaced, never merged. The remote provenance tag keeps the
// interceptor inert for the replace.
func (o *Orchestrator) ingestItems(items []models.Item) {
	o.store.Dispatch(localstore.ReplaceItems{Provenance: localstore.Remote, Items: items})
	o.store.Dispatch(localstore.SetSyncStatus{Provenance: localstore.Remote, Status: models.SyncSynced})
}

func (o *Orchestrator) ingestRecipes(recipes []models.Recipe) {
	o.store.Dispatch(localstore.ReplaceRecipes{Provenance: localstore.Remote, Recipes: recipes})
	o.store.Dispatch(localstore.SetSyncStatus{Provenance: localstore.Remote, Status: models.SyncSynced})
}

func (o *Orchestrator) teardownSpaceLocked() {
	if o.itemsUnsub != nil {
		o.itemsUnsub()
		o.itemsUnsub = nil
	}
	if o.recipesUnsub != nil {
		o.recipesUnsub()
		o.recipesUnsub = nil
	}
	o.spaceID = ""
}

func (o *Orchestrator) teardownAllLocked() {
	o.teardownSpaceLocked()
	if o.spacesUnsub != nil {
		o.spacesUnsub()
		o.spacesUnsub = nil
	}
}
