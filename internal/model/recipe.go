package model

import "github.com/google/uuid"

// Recipe is a named dish with a description, ingredients and an optional image.
type Recipe struct {
	ID          uuid.UUID
	Name        string
	Description string
	Ingredients []string
	// Type holds the Name of a DishType. Nothing guarantees that such a
	// dish type exists.
	Type  string
	Image Image
}

// NewRecipe creates a recipe with a freshly generated ID.
func NewRecipe(name, description string, ingredients []string, dishType string, image Image) Recipe {
	if ingredients == nil {
		ingredients = []string{}
	}
	return Recipe{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Ingredients: ingredients,
		Type:        dishType,
		Image:       image,
	}
}
