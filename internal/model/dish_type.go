package model

import "github.com/google/uuid"

// DishType is a named category (e.g. "Salad") that groups recipes.
// Recipes reference a dish type by Name, not by ID.
type DishType struct {
	ID    uuid.UUID
	Name  string
	Image Image
}

// NewDishType creates a dish type with a freshly generated ID.
func NewDishType(name string, image Image) DishType {
	return DishType{
		ID:    uuid.New(),
		Name:  name,
		Image: image,
	}
}
