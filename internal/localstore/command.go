package localstore

import "strings"

// Origin records where a command came from. Commands created by user actions
// are local; commands dispatched by the sync orchestrator while applying an
// inbound remote snapshot are remote. The change interceptor reads the tag
// synchronously, so a remote-originated command can never echo back out as a
// push, with no reliance on a timing window.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Kind identifies a command variant. Every kind has a row in the capability
// table below declaring whether and how it synchronizes.
type Kind string

const (
	KindAddItem                 Kind = "item/add"
	KindUpdateItem              Kind = "item/update"
	KindToggleShoppingCompleted Kind = "item/toggleCompleted"
	KindRemoveItem              Kind = "item/remove"
	KindRemoveFromList          Kind = "item/removeFromList"
	KindClearCompletedShopping  Kind = "item/clearCompleted"
	KindClearExpiredPantry      Kind = "item/clearExpired"
	KindClearAllItems           Kind = "item/clearAll"

	KindAddRecipe    Kind = "recipe/add"
	KindUpdateRecipe Kind = "recipe/update"
	KindDeleteRecipe Kind = "recipe/delete"

	KindReplaceItems   Kind = "sync/replaceItems"
	KindReplaceRecipes Kind = "sync/replaceRecipes"

	KindSetSharingEnabled  Kind = "settings/setSharingEnabled"
	KindSetCurrentSpace    Kind = "settings/setCurrentSpace"
	KindSetAvailableSpaces Kind = "settings/setAvailableSpaces"
	KindSetSyncStatus      Kind = "settings/setSyncStatus"
)

// Command is a single atomic mutation of the Store. Commands are applied
// synchronously and serially; apply is unexported so every variant lives in
// this package and has a capability row.
type Command interface {
	Kind() Kind
	Origin() Origin
	apply(s *State)
}

// Provenance is embedded by every command struct and carries the origin tag.
// The zero value means local, so ordinary command literals need no extra
// field; the orchestrator tags its ingest commands with Remote.
type Provenance struct {
	From Origin
}

// Remote is the provenance tag for commands derived from an inbound snapshot.
var Remote = Provenance{From: OriginRemote}

// Origin implements part of Command.
func (p Provenance) Origin() Origin {
	if p.From == "" {
		return OriginLocal
	}
	return p.From
}

// SyncScope says which remote collection a command kind touches.
type SyncScope int

const (
	ScopeNone SyncScope = iota
	ScopeItems
	ScopeRecipes
)

// DiffMode says how the interceptor derives pushes from a command.
type DiffMode int

const (
	// DiffNone: never pushed.
	DiffNone DiffMode = iota

	// DiffSingle: exactly one entity is affected; resolve it by id, or for
	// id-less add commands by case-insensitive name in the after-state, and
	// push its full record.
	DiffSingle

	// DiffBulk: any number of entities may change or vanish; diff the
	// before/after collections, pushing a delete per vanished id and an
	// update per changed id.
	DiffBulk

	// DiffDeleteByID: the command names the deleted entity directly; push a
	// remote delete for that id with no lookup.
	DiffDeleteByID
)

// Capability is one row of the command capability table.
type Capability struct {
	Scope SyncScope
	Mode  DiffMode
}

// capabilities declares, at definition time, whether and how each command
// kind synchronizes. Adding a command without a row here makes it inert for
// sync, never silently pushed.
var capabilities = map[Kind]Capability{
	KindAddItem:                 {Scope: ScopeItems, Mode: DiffSingle},
	KindUpdateItem:              {Scope: ScopeItems, Mode: DiffSingle},
	KindToggleShoppingCompleted: {Scope: ScopeItems, Mode: DiffSingle},
	KindRemoveItem:              {Scope: ScopeItems, Mode: DiffBulk},
	KindRemoveFromList:          {Scope: ScopeItems, Mode: DiffBulk},
	KindClearCompletedShopping:  {Scope: ScopeItems, Mode: DiffBulk},
	KindClearExpiredPantry:      {Scope: ScopeItems, Mode: DiffBulk},
	KindClearAllItems:           {Scope: ScopeItems, Mode: DiffBulk},

	KindAddRecipe:    {Scope: ScopeRecipes, Mode: DiffSingle},
	KindUpdateRecipe: {Scope: ScopeRecipes, Mode: DiffSingle},
	KindDeleteRecipe: {Scope: ScopeRecipes, Mode: DiffDeleteByID},

	KindReplaceItems:   {Scope: ScopeNone, Mode: DiffNone},
	KindReplaceRecipes: {Scope: ScopeNone, Mode: DiffNone},

	KindSetSharingEnabled:  {Scope: ScopeNone, Mode: DiffNone},
	KindSetCurrentSpace:    {Scope: ScopeNone, Mode: DiffNone},
	KindSetAvailableSpaces: {Scope: ScopeNone, Mode: DiffNone},
	KindSetSyncStatus:      {Scope: ScopeNone, Mode: DiffNone},
}

// CapabilityOf returns the capability row for kind. Unknown kinds get the
// zero capability (no scope, no diff).
func CapabilityOf(k Kind) Capability {
	return capabilities[k]
}

// EntityRef is implemented by single-entity commands that know their target's
// id. An empty id means the id was not assigned yet (add commands) and the
// interceptor falls back to name resolution.
type EntityRef interface {
	EntityID() string
}

// NamedEntity is implemented by add commands so an id-less target can be
// resolved by case-insensitive name in the after-state.
type NamedEntity interface {
	EntityName() string
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
