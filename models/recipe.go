package models

import "time"

// Ingredient is a single ordered entry of a recipe's ingredient list.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
}

// Recipe is a user-authored recipe. Unlike items, recipes are created,
// edited, and deleted only by direct user command; they have no list
// membership lifecycle.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`

	// Instructions holds optional free-text instruction lines in order.
	Instructions []string `json:"instructions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
