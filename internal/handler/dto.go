package handler

import (
	"recipebook/internal/model"

	"github.com/google/uuid"
)

// DishTypeRequest is the body of dish type create and update requests.
type DishTypeRequest struct {
	Name  string  `json:"name"`
	Image *[]byte `json:"image,omitempty"`
}

// DishTypeResponse is the API representation of a dish type.
type DishTypeResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *[]byte   `json:"image,omitempty"`
}

// RecipeRequest is the body of recipe create and update requests.
type RecipeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"recipeDescription"`
	Ingredients []string `json:"ingredients"`
	Type        string   `json:"type"`
	Image       *[]byte  `json:"image,omitempty"`
}

// RecipeResponse is the API representation of a recipe.
type RecipeResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"recipeDescription"`
	Ingredients []string          `json:"ingredients"`
	Type        string            `json:"type"`
	Image       *[]byte           `json:"image,omitempty"`
	DishType    *DishTypeResponse `json:"dishType,omitempty"`
}

// ExportRequest is the body of an export request. Empty paths use the configured defaults.
type ExportRequest struct {
	RecipesPath   string `json:"recipesPath"`
	DishTypesPath string `json:"dishTypesPath"`
}

// ImportRequest is the body of an import request.
type ImportRequest struct {
	RecipesPath     string `json:"recipesPath"`
	DishTypesPath   string `json:"dishTypesPath"`
	ReplaceExisting bool   `json:"replaceExisting"`
	Policy          string `json:"policy"`
}

func imageFromRequest(data *[]byte) model.Image {
	if data == nil {
		return model.NoImage
	}
	return model.NewImage(*data)
}

func imageToResponse(img model.Image) *[]byte {
	data, ok := img.Bytes()
	if !ok {
		return nil
	}
	return &data
}

func toDishTypeResponse(dt model.DishType) DishTypeResponse {
	return DishTypeResponse{
		ID:    dt.ID,
		Name:  dt.Name,
		Image: imageToResponse(dt.Image),
	}
}

func toRecipeResponse(r model.Recipe) RecipeResponse {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: ingredients,
		Type:        r.Type,
		Image:       imageToResponse(r.Image),
	}
}
