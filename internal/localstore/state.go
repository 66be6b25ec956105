package localstore

import (
	"github.com/Fenner314/chop-list-sub000/models"
)

// State is the complete in-memory document held by the Store: the device's
// sharing settings plus the items and recipes collections, keyed by id.
//
// State values handed out by the Store are deep copies; mutating them never
// affects the Store. The only way to change the Store is dispatching a
// Command.
type State struct {
	Settings models.Settings
	Items    map[string]models.Item
	Recipes  map[string]models.Recipe
}

func newState() State {
	return State{
		Settings: models.Settings{SyncStatus: models.SyncLocal},
		Items:    make(map[string]models.Item),
		Recipes:  make(map[string]models.Recipe),
	}
}

// Clone returns a deep copy of the state. Membership pointers, ingredient
// slices, and the available-spaces cache are all duplicated.
func (s State) Clone() State {
	out := State{
		Settings: s.Settings,
		Items:    make(map[string]models.Item, len(s.Items)),
		Recipes:  make(map[string]models.Recipe, len(s.Recipes)),
	}

	if s.Settings.AvailableSpaces != nil {
		spaces := make([]models.Space, len(s.Settings.AvailableSpaces))
		copy(spaces, s.Settings.AvailableSpaces)
		for i := range spaces {
			if spaces[i].MemberIDs != nil {
				ids := make([]string, len(spaces[i].MemberIDs))
				copy(ids, spaces[i].MemberIDs)
				spaces[i].MemberIDs = ids
			}
		}
		out.Settings.AvailableSpaces = spaces
	}

	for id, item := range s.Items {
		out.Items[id] = cloneItem(item)
	}
	for id, recipe := range s.Recipes {
		out.Recipes[id] = cloneRecipe(recipe)
	}

	return out
}

// ItemByName looks an item up by case-insensitive name. Used to resolve add
// commands that carry no id.
func (s State) ItemByName(name string) (models.Item, bool) {
	for _, item := range s.Items {
		if item.SameName(name) {
			return item, true
		}
	}
	return models.Item{}, false
}

// RecipeByName looks a recipe up by case-insensitive name.
func (s State) RecipeByName(name string) (models.Recipe, bool) {
	for _, r := range s.Recipes {
		if equalFoldTrim(r.Name, name) {
			return r, true
		}
	}
	return models.Recipe{}, false
}

func cloneItem(item models.Item) models.Item {
	if item.Lists.Pantry != nil {
		p := *item.Lists.Pantry
		if p.ExpiresAt != nil {
			exp := *p.ExpiresAt
			p.ExpiresAt = &exp
		}
		item.Lists.Pantry = &p
	}
	if item.Lists.Shopping != nil {
		sh := *item.Lists.Shopping
		item.Lists.Shopping = &sh
	}
	return item
}

func cloneRecipe(r models.Recipe) models.Recipe {
	if r.Ingredients != nil {
		ing := make([]models.Ingredient, len(r.Ingredients))
		copy(ing, r.Ingredients)
		r.Ingredients = ing
	}
	if r.Instructions != nil {
		ins := make([]string, len(r.Instructions))
		copy(ins, r.Instructions)
		r.Instructions = ins
	}
	return r
}
