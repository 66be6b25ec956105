package localstore

import (
	"github.com/Fenner314/chop-list-sub000/models"
)

// ReplaceItems overwrites the whole items collection with an authoritative
// remote snapshot. The replace is total, not a merge; orphans and unresolved
// categories are normalized away on the way in. Dispatched by the sync
// orchestrator with the Remote provenance tag.
type ReplaceItems struct {
	Provenance

	Items []models.Item
}

func (ReplaceItems) Kind() Kind { return KindReplaceItems }

func (c ReplaceItems) apply(s *State) {
	next := make(map[string]models.Item, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" || item.Orphan() {
			continue
		}
		item.Normalize()
		next[item.ID] = cloneItem(item)
	}
	s.Items = next
}

// ReplaceRecipes overwrites the whole recipes collection with an
// authoritative remote snapshot.
type ReplaceRecipes struct {
	Provenance

	Recipes []models.Recipe
}

func (ReplaceRecipes) Kind() Kind { return KindReplaceRecipes }

func (c ReplaceRecipes) apply(s *State) {
	next := make(map[string]models.Recipe, len(c.Recipes))
	for _, r := range c.Recipes {
		if r.ID == "" {
			continue
		}
		next[r.ID] = cloneRecipe(r)
	}
	s.Recipes = next
}

// SetSharingEnabled flips the sharing flag. Disabling cascades: the bound
// space is cleared and sync status returns to local.
type SetSharingEnabled struct {
	Provenance

	Enabled bool
}

func (SetSharingEnabled) Kind() Kind { return KindSetSharingEnabled }

func (c SetSharingEnabled) apply(s *State) {
	s.Settings.SharingEnabled = c.Enabled
	if !c.Enabled {
		s.Settings.CurrentSpaceID = ""
		s.Settings.SyncStatus = models.SyncLocal
	}
}

// SetCurrentSpace binds the device to a space id; empty unbinds.
type SetCurrentSpace struct {
	Provenance

	SpaceID string
}

func (SetCurrentSpace) Kind() Kind { return KindSetCurrentSpace }

func (c SetCurrentSpace) apply(s *State) {
	s.Settings.CurrentSpaceID = c.SpaceID
}

// SetAvailableSpaces refreshes the cached list of spaces the signed-in user
// belongs to. Dispatched by the orchestrator from the user-spaces
// subscription.
type SetAvailableSpaces struct {
	Provenance

	Spaces []models.Space
}

func (SetAvailableSpaces) Kind() Kind { return KindSetAvailableSpaces }

func (c SetAvailableSpaces) apply(s *State) {
	spaces := make([]models.Space, len(c.Spaces))
	copy(spaces, c.Spaces)
	s.Settings.AvailableSpaces = spaces
}

// SetSyncStatus records the device's sync state.
type SetSyncStatus struct {
	Provenance

	Status models.SyncStatus
}

func (SetSyncStatus) Kind() Kind { return KindSetSyncStatus }

func (c SetSyncStatus) apply(s *State) {
	s.Settings.SyncStatus = c.Status
}
