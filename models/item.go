package models

import (
	"strings"
	"time"
)

// CategoryOther is the fallback category assigned to any item whose category
// was never resolved. Items are never persisted with an empty category.
const CategoryOther = "other"

// ListKind names one of the two lists an item can belong to.
type ListKind string

const (
	ListPantry   ListKind = "pantry"
	ListShopping ListKind = "shopping"
)

// PantryEntry holds the pantry-side membership metadata of an item.
type PantryEntry struct {
	// ExpiresAt is the optional expiration timestamp of the stocked item.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// AddedAt records when the item was placed in the pantry.
	AddedAt time.Time `json:"addedAt"`

	// Order is the manual sort position within the pantry list.
	Order int `json:"order"`
}

// ShoppingEntry holds the shopping-side membership metadata of an item.
type ShoppingEntry struct {
	// Completed marks the item as checked off on the shopping list.
	Completed bool `json:"completed"`

	// CreatedAt records when the item was added to the shopping list.
	CreatedAt time.Time `json:"createdAt"`

	// Order is the manual sort position within the shopping list.
	Order int `json:"order"`
}

// ListMembership describes which of the two lists an item currently belongs
// to. At most two memberships exist; each carries list-specific metadata.
// An item with neither membership is an orphan and must not be stored.
type ListMembership struct {
	Pantry   *PantryEntry   `json:"pantry,omitempty"`
	Shopping *ShoppingEntry `json:"shopping,omitempty"`
}

// Empty reports whether no membership is present.
func (m ListMembership) Empty() bool {
	return m.Pantry == nil && m.Shopping == nil
}

// Item is a grocery/pantry entity. Its ID is globally unique and never
// reused; the item exists exactly as long as it belongs to at least one list.
type Item struct {
	// ID is the globally unique identifier of the item.
	ID string `json:"id"`

	// Name is free text entered by the user.
	Name string `json:"name"`

	// Quantity is a numeric string ("2", "0.5"); unit conversion heuristics
	// live outside the sync core, so the value is not parsed here.
	Quantity string `json:"quantity"`

	// Unit is the optional measurement unit ("kg", "pcs").
	Unit string `json:"unit,omitempty"`

	// Category is always resolved; defaults to CategoryOther.
	Category string `json:"category"`

	// Lists holds the item's pantry/shopping memberships.
	Lists ListMembership `json:"listMembership"`
}

// Orphan reports whether the item has lost both list memberships and must be
// removed from the store.
func (i Item) Orphan() bool {
	return i.Lists.Empty()
}

// Normalize fills defaulted fields in place. Category falls back to
// CategoryOther when unresolved.
func (i *Item) Normalize() {
	if strings.TrimSpace(i.Category) == "" {
		i.Category = CategoryOther
	}
}

// SameName reports whether name matches the item's name ignoring case.
// Name identity is case-insensitive throughout the sync core: "Milk" and
// "milk" are the same logical item.
func (i Item) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Name), strings.TrimSpace(name))
}
