package localstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/Fenner314/chop-list-sub000/models"
)

// AddItem puts an item on one of the two lists. If an item with the same
// name (case-insensitive) already exists, the membership is attached to it
// instead of creating a duplicate; otherwise a new item is created, with a
// fresh uuid when ID is empty.
type AddItem struct {
	Provenance

	ID       string
	Name     string
	Quantity string
	Unit     string
	Category string

	List      models.ListKind
	ExpiresAt *time.Time
	Order     int
}

func (AddItem) Kind() Kind           { return KindAddItem }
func (c AddItem) EntityID() string   { return c.ID }
func (c AddItem) EntityName() string { return c.Name }

func (c AddItem) apply(s *State) {
	now := time.Now().UTC()

	item, ok := s.ItemByName(c.Name)
	if !ok {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		item = models.Item{
			ID:       id,
			Name:     c.Name,
			Quantity: c.Quantity,
			Unit:     c.Unit,
			Category: c.Category,
		}
		item.Normalize()
	}

	switch c.List {
	case models.ListShopping:
		item.Lists.Shopping = &models.ShoppingEntry{CreatedAt: now, Order: c.Order}
	default:
		item.Lists.Pantry = &models.PantryEntry{ExpiresAt: c.ExpiresAt, AddedAt: now, Order: c.Order}
	}

	s.Items[item.ID] = item
}

// UpdateItem rewrites an existing item's core fields. Memberships are kept
// as they are; a missing id is a no-op.
type UpdateItem struct {
	Provenance

	ID       string
	Name     string
	Quantity string
	Unit     string
	Category string
}

func (UpdateItem) Kind() Kind         { return KindUpdateItem }
func (c UpdateItem) EntityID() string { return c.ID }

func (c UpdateItem) apply(s *State) {
	item, ok := s.Items[c.ID]
	if !ok {
		return
	}

	item.Name = c.Name
	item.Quantity = c.Quantity
	item.Unit = c.Unit
	item.Category = c.Category
	item.Normalize()

	s.Items[c.ID] = item
}

// ToggleShoppingCompleted flips the completed flag of an item's shopping
// membership. No-op when the item is absent or not on the shopping list.
type ToggleShoppingCompleted struct {
	Provenance

	ID string
}

func (ToggleShoppingCompleted) Kind() Kind         { return KindToggleShoppingCompleted }
func (c ToggleShoppingCompleted) EntityID() string { return c.ID }

func (c ToggleShoppingCompleted) apply(s *State) {
	item, ok := s.Items[c.ID]
	if !ok || item.Lists.Shopping == nil {
		return
	}

	sh := *item.Lists.Shopping
	sh.Completed = !sh.Completed
	item.Lists.Shopping = &sh
	s.Items[c.ID] = item
}

// RemoveItem deletes an item outright, regardless of memberships.
type RemoveItem struct {
	Provenance

	ID string
}

func (RemoveItem) Kind() Kind { return KindRemoveItem }

func (c RemoveItem) apply(s *State) {
	delete(s.Items, c.ID)
}

// RemoveFromList drops one membership of an item. An item whose last
// membership is removed is deleted: orphans never stay in the store.
type RemoveFromList struct {
	Provenance

	ID   string
	List models.ListKind
}

func (RemoveFromList) Kind() Kind { return KindRemoveFromList }

func (c RemoveFromList) apply(s *State) {
	item, ok := s.Items[c.ID]
	if !ok {
		return
	}

	switch c.List {
	case models.ListShopping:
		item.Lists.Shopping = nil
	default:
		item.Lists.Pantry = nil
	}

	if item.Orphan() {
		delete(s.Items, c.ID)
		return
	}
	s.Items[c.ID] = item
}

// ClearCompletedShopping drops the shopping membership of every completed
// shopping item, deleting the ones that end up orphaned.
type ClearCompletedShopping struct {
	Provenance
}

func (ClearCompletedShopping) Kind() Kind { return KindClearCompletedShopping }

func (ClearCompletedShopping) apply(s *State) {
	for id, item := range s.Items {
		if item.Lists.Shopping == nil || !item.Lists.Shopping.Completed {
			continue
		}
		item.Lists.Shopping = nil
		if item.Orphan() {
			delete(s.Items, id)
			continue
		}
		s.Items[id] = item
	}
}

// ClearExpiredPantry drops the pantry membership of every pantry item whose
// expiration is before the cutoff, deleting the ones that end up orphaned.
// A zero Before means "now".
type ClearExpiredPantry struct {
	Provenance

	Before time.Time
}

func (ClearExpiredPantry) Kind() Kind { return KindClearExpiredPantry }

func (c ClearExpiredPantry) apply(s *State) {
	cutoff := c.Before
	if cutoff.IsZero() {
		cutoff = time.Now().UTC()
	}

	for id, item := range s.Items {
		p := item.Lists.Pantry
		if p == nil || p.ExpiresAt == nil || !p.ExpiresAt.Before(cutoff) {
			continue
		}
		item.Lists.Pantry = nil
		if item.Orphan() {
			delete(s.Items, id)
			continue
		}
		s.Items[id] = item
	}
}

// ClearAllItems empties both lists.
type ClearAllItems struct {
	Provenance
}

func (ClearAllItems) Kind() Kind { return KindClearAllItems }

func (ClearAllItems) apply(s *State) {
	s.Items = make(map[string]models.Item)
}
