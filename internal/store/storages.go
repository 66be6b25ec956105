package store

import (
	"fmt"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
)

// Storages aggregates every repository of the space server for injection
// into the service layer.
type Storages struct {
	Users   UserRepository
	Spaces  SpaceRepository
	Items   DocRepository
	Recipes DocRepository
	Invites InviteRepository
}

// NewStorages wires all repositories over one database connection.
func NewStorages(db *DB, log *logger.Logger) (*Storages, error) {
	items, err := NewDocRepository(db, ItemsTable, log)
	if err != nil {
		return nil, fmt.Errorf("create items repository: %w", err)
	}
	recipes, err := NewDocRepository(db, RecipesTable, log)
	if err != nil {
		return nil, fmt.Errorf("create recipes repository: %w", err)
	}

	return &Storages{
		Users:   NewUserRepository(db, log),
		Spaces:  NewSpaceRepository(db, log),
		Items:   items,
		Recipes: recipes,
		Invites: NewInviteRepository(db, log),
	}, nil
}
