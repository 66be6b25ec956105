package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/internal/localstore"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// ChangeInterceptor observes every command dispatched to the local store and
// turns local, user-initiated item/recipe mutations into remote pushes. It
// implements [localstore.Interceptor].
//
// A command produces no push when any of these hold:
//   - its provenance tag is remote (it is an inbound snapshot being applied);
//   - sharing is disabled or no space is bound;
//   - its capability row declares no sync scope.
//
// Pushes are fire-and-forget: each runs on its own goroutine with a bounded
// context, failures are logged and swallowed, and the local command is never
// rolled back. There is no retry queue; a later command touching the same
// entity naturally re-pushes its current state.
type ChangeInterceptor struct {
	repo        adapter.SpaceRepository
	log         *logger.Logger
	pushTimeout time.Duration

	mu    sync.RWMutex
	actor string

	wg sync.WaitGroup
}

// NewChangeInterceptor constructs an interceptor pushing through repo.
// Register it on the store with [localstore.Store.AddInterceptor].
func NewChangeInterceptor(repo adapter.SpaceRepository, log *logger.Logger) *ChangeInterceptor {
	return &ChangeInterceptor{
		repo:        repo,
		log:         log,
		pushTimeout: 15 * time.Second,
	}
}

// SetActor records the user id attached to subsequent pushes. Cleared with
// an empty string on sign-out.
func (ci *ChangeInterceptor) SetActor(userID string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	ci.actor = userID
}

func (ci *ChangeInterceptor) actorID() string {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	return ci.actor
}

// Flush blocks until every in-flight push has finished. Called on shutdown
// and by tests.
func (ci *ChangeInterceptor) Flush() {
	ci.wg.Wait()
}

// Intercept implements [localstore.Interceptor].
func (ci *ChangeInterceptor) Intercept(cmd localstore.Command, before, after localstore.State) {
	if cmd.Origin() == localstore.OriginRemote {
		return
	}

	settings := after.Settings
	if !settings.SharingEnabled || settings.CurrentSpaceID == "" {
		return
	}

	capability := localstore.CapabilityOf(cmd.Kind())
	if capability.Scope == localstore.ScopeNone || capability.Mode == localstore.DiffNone {
		return
	}

	switch capability.Scope {
	case localstore.ScopeItems:
		ci.interceptItems(cmd, capability, settings.CurrentSpaceID, before, after)
	case localstore.ScopeRecipes:
		ci.interceptRecipes(cmd, capability, settings.CurrentSpaceID, before, after)
	}
}

func (ci *ChangeInterceptor) interceptItems(cmd localstore.Command, capability localstore.Capability, spaceID string, before, after localstore.State) {
	switch capability.Mode {
	case localstore.DiffSingle:
		item, ok := resolveItem(cmd, after)
		if !ok {
			ci.log.Debug().Str("command", string(cmd.Kind())).Msg("no item resolved for push")
			return
		}
		ci.push(string(cmd.Kind()), func(ctx context.Context) error {
			return ci.repo.SetItem(ctx, spaceID, item, ci.actorID())
		})

	case localstore.DiffBulk:
		deleted, changed := diffItems(before.Items, after.Items)
		for _, id := range deleted {
			itemID := id
			ci.push(string(cmd.Kind()), func(ctx context.Context) error {
				return ci.repo.DeleteItem(ctx, spaceID, itemID)
			})
		}
		for _, item := range changed {
			pushed := item
			ci.push(string(cmd.Kind()), func(ctx context.Context) error {
				return ci.repo.SetItem(ctx, spaceID, pushed, ci.actorID())
			})
		}
	}
}

func (ci *ChangeInterceptor) interceptRecipes(cmd localstore.Command, capability localstore.Capability, spaceID string, before, after localstore.State) {
	switch capability.Mode {
	case localstore.DiffSingle:
		recipe, ok := resolveRecipe(cmd, after)
		if !ok {
			ci.log.Debug().Str("command", string(cmd.Kind())).Msg("no recipe resolved for push")
			return
		}
		ci.push(string(cmd.Kind()), func(ctx context.Context) error {
			return ci.repo.SetRecipe(ctx, spaceID, recipe, ci.actorID())
		})

	case localstore.DiffDeleteByID:
		ref, ok := cmd.(localstore.EntityRef)
		if !ok || ref.EntityID() == "" {
			return
		}
		recipeID := ref.EntityID()
		ci.push(string(cmd.Kind()), func(ctx context.Context) error {
			return ci.repo.DeleteRecipe(ctx, spaceID, recipeID)
		})
	}
}

func (ci *ChangeInterceptor) push(kind string, fn func(ctx context.Context) error) {
	ci.wg.Add(1)
	go func() {
		defer ci.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), ci.pushTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			// Degrades to "will sync later": no retry queue, no user-facing
			// error, the local command already succeeded.
			ci.log.Warn().Err(err).Str("command", kind).Msg("remote push failed")
		}
	}()
}

// resolveItem finds the single item affected by a DiffSingle command: by the
// command's explicit id, falling back to case-insensitive name lookup in the
// after-state. The fallback covers adds that carry no id as well as adds
// whose fresh id went unused because the name merged into an existing item.
func resolveItem(cmd localstore.Command, after localstore.State) (models.Item, bool) {
	if ref, ok := cmd.(localstore.EntityRef); ok && ref.EntityID() != "" {
		if item, found := after.Items[ref.EntityID()]; found {
			return item, true
		}
	}
	if named, ok := cmd.(localstore.NamedEntity); ok && named.EntityName() != "" {
		return after.ItemByName(named.EntityName())
	}
	return models.Item{}, false
}

func resolveRecipe(cmd localstore.Command, after localstore.State) (models.Recipe, bool) {
	if ref, ok := cmd.(localstore.EntityRef); ok && ref.EntityID() != "" {
		recipe, found := after.Recipes[ref.EntityID()]
		return recipe, found
	}
	if named, ok := cmd.(localstore.NamedEntity); ok {
		return after.RecipeByName(named.EntityName())
	}
	return models.Recipe{}, false
}

// diffItems compares the before/after collections of a bulk command. It
// returns the ids present before and absent after (sorted, pushed as
// deletes) and the items present in both whose serialized content differs
// (pushed as updates). Ids still present are never deleted.
func diffItems(before, after map[string]models.Item) (deleted []string, changed []models.Item) {
	for id := range before {
		if _, ok := after[id]; !ok {
			deleted = append(deleted, id)
		}
	}
	sort.Strings(deleted)

	changedIDs := make([]string, 0)
	for id, afterItem := range after {
		beforeItem, ok := before[id]
		if !ok {
			continue
		}
		if !sameJSON(beforeItem, afterItem) {
			changedIDs = append(changedIDs, id)
		}
	}
	sort.Strings(changedIDs)
	for _, id := range changedIDs {
		changed = append(changed, after[id])
	}

	return deleted, changed
}

func sameJSON(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
