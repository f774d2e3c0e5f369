package service

import (
	"context"

	"recipebook/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines browse, search and edit operations on the catalog.
type CatalogService interface {
	// ListDishTypes retrieves all dish types sorted by name.
	ListDishTypes(ctx context.Context) ([]model.DishType, error)

	// DishType retrieves a dish type by ID.
	DishType(ctx context.Context, id uuid.UUID) (*model.DishType, error)

	// ResolveType returns the dish type a recipe refers to, or nil when the
	// recipe has no type or its type name matches no dish type.
	ResolveType(ctx context.Context, recipe model.Recipe) (*model.DishType, error)

	// CreateDishType adds a new dish type.
	CreateDishType(ctx context.Context, input DishTypeInput) (*model.DishType, error)

	// UpdateDishType renames a dish type and replaces its image.
	// Recipes referring to the old name follow the rename.
	UpdateDishType(ctx context.Context, id uuid.UUID, input DishTypeInput) (*model.DishType, error)

	// DeleteDishType removes a dish type, applying the configured DeletePolicy
	// to recipes that refer to it.
	DeleteDishType(ctx context.Context, id uuid.UUID) error

	// ListRecipes retrieves recipes of the given type sorted by name.
	// An empty typeName lists every recipe.
	ListRecipes(ctx context.Context, typeName string) ([]model.Recipe, error)

	// SearchRecipes retrieves recipes whose name, description, ingredients or
	// type contain query, ignoring case.
	SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error)

	// Recipe retrieves a recipe by ID.
	Recipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)

	// CreateRecipe adds a new recipe.
	CreateRecipe(ctx context.Context, input RecipeInput) (*model.Recipe, error)

	// UpdateRecipe replaces every editable field of a recipe.
	UpdateRecipe(ctx context.Context, id uuid.UUID, input RecipeInput) (*model.Recipe, error)

	// DeleteRecipe removes a recipe.
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// TransferService moves the whole catalog to and from JSON documents.
// Only one export or import runs at a time; concurrent requests fail with model.ErrBusy.
type TransferService interface {
	// ExportCatalog writes all recipes and dish types to two documents.
	ExportCatalog(ctx context.Context, req ExportRequest) (*ExportResult, error)

	// ImportCatalog inserts the records of the given documents into the catalog.
	ImportCatalog(ctx context.Context, req ImportRequest) (*ImportSummary, error)
}

// Presenter hands the locations of exported documents to the user.
type Presenter interface {
	Present(ctx context.Context, paths []string)
}

// DishTypeInput carries user-editable dish type fields.
type DishTypeInput struct {
	Name  string
	Image model.Image
}

// RecipeInput carries user-editable recipe fields.
type RecipeInput struct {
	Name        string
	Description string
	Ingredients []string
	Type        string
	Image       model.Image
}

// ExportRequest names the export destinations. Empty paths use the configured defaults.
type ExportRequest struct {
	RecipesPath   string
	DishTypesPath string
}

// ExportResult lists the written documents in write order.
type ExportResult struct {
	Paths     []string `json:"paths"`
	Recipes   int      `json:"recipes"`
	DishTypes int      `json:"dishTypes"`
}

// ImportRequest names the documents to import. An empty path skips that document.
type ImportRequest struct {
	RecipesPath     string
	DishTypesPath   string
	ReplaceExisting bool
	// Policy overrides the configured merge policy when set.
	Policy model.MergePolicy
}

// ImportSummary counts the outcome of an import.
// DishTypes and Recipes count records inserted or overwritten.
type ImportSummary struct {
	DishTypes   int `json:"dishTypes"`
	Recipes     int `json:"recipes"`
	Skipped     int `json:"skipped"`
	Overwritten int `json:"overwritten"`
}
