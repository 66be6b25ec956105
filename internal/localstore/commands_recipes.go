package localstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/Fenner314/chop-list-sub000/models"
)

// AddRecipe creates a recipe. A fresh uuid is assigned when ID is empty and
// ingredient ids are filled in the same way. Servings below 1 default to 1.
type AddRecipe struct {
	Provenance

	ID           string
	Name         string
	Description  string
	Servings     int
	Ingredients  []models.Ingredient
	Instructions []string
}

func (AddRecipe) Kind() Kind           { return KindAddRecipe }
func (c AddRecipe) EntityID() string   { return c.ID }
func (c AddRecipe) EntityName() string { return c.Name }

func (c AddRecipe) apply(s *State) {
	now := time.Now().UTC()

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	servings := c.Servings
	if servings < 1 {
		servings = 1
	}

	ingredients := make([]models.Ingredient, len(c.Ingredients))
	copy(ingredients, c.Ingredients)
	for i := range ingredients {
		if ingredients[i].ID == "" {
			ingredients[i].ID = uuid.NewString()
		}
	}

	s.Recipes[id] = models.Recipe{
		ID:           id,
		Name:         c.Name,
		Description:  c.Description,
		Servings:     servings,
		Ingredients:  ingredients,
		Instructions: c.Instructions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateRecipe replaces an existing recipe wholesale, preserving CreatedAt
// and bumping UpdatedAt. A missing id is a no-op.
type UpdateRecipe struct {
	Provenance

	Recipe models.Recipe
}

func (UpdateRecipe) Kind() Kind         { return KindUpdateRecipe }
func (c UpdateRecipe) EntityID() string { return c.Recipe.ID }

func (c UpdateRecipe) apply(s *State) {
	old, ok := s.Recipes[c.Recipe.ID]
	if !ok {
		return
	}

	next := cloneRecipe(c.Recipe)
	next.CreatedAt = old.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	if next.Servings < 1 {
		next.Servings = 1
	}

	s.Recipes[next.ID] = next
}

// DeleteRecipe removes a recipe by id.
type DeleteRecipe struct {
	Provenance

	ID string
}

func (DeleteRecipe) Kind() Kind         { return KindDeleteRecipe }
func (c DeleteRecipe) EntityID() string { return c.ID }

func (c DeleteRecipe) apply(s *State) {
	delete(s.Recipes, c.ID)
}
