package repository

import (
	"context"

	"recipebook/internal/model"

	"github.com/google/uuid"
)

// SortField selects the ordering of fetched entities.
type SortField string

const (
	// SortByName orders by name, ties broken by insertion order.
	SortByName SortField = "name"
	// SortByInsertion orders by insertion order.
	SortByInsertion SortField = "insertion"
)

// DishTypeQuery filters and orders a dish type fetch.
type DishTypeQuery struct {
	// Name, when set, restricts the result to dish types with exactly this name.
	Name *string
	Sort SortField
}

// RecipeQuery filters and orders a recipe fetch.
type RecipeQuery struct {
	// Type, when set, restricts the result to recipes of exactly this type.
	// An empty string selects recipes without a type.
	Type *string
	Sort SortField
}

// CatalogStore is a session over the persistent catalog.
//
// Mutations are pending until Save and are visible to every read made
// through the same store in the meantime. Discard drops pending mutations.
// IDs are not unique: Insert always adds a new row, and operations taking
// an ID affect every row carrying it.
type CatalogStore interface {
	// InsertDishType adds a dish type as a new row.
	InsertDishType(ctx context.Context, dishType model.DishType) error

	// UpdateDishType overwrites name and image of rows matching dishType.ID.
	// Returns the number of rows changed.
	UpdateDishType(ctx context.Context, dishType model.DishType) (int64, error)

	// DeleteDishType removes rows with the given ID. Returns the number removed.
	DeleteDishType(ctx context.Context, id uuid.UUID) (int64, error)

	// DishTypeByID returns the first dish type with the given ID, or nil when none exists.
	DishTypeByID(ctx context.Context, id uuid.UUID) (*model.DishType, error)

	// FetchDishTypes returns dish types matching the query.
	FetchDishTypes(ctx context.Context, query DishTypeQuery) ([]model.DishType, error)

	// InsertRecipe adds a recipe as a new row.
	InsertRecipe(ctx context.Context, recipe model.Recipe) error

	// UpdateRecipe overwrites every field of rows matching recipe.ID.
	// Returns the number of rows changed.
	UpdateRecipe(ctx context.Context, recipe model.Recipe) (int64, error)

	// DeleteRecipe removes rows with the given ID. Returns the number removed.
	DeleteRecipe(ctx context.Context, id uuid.UUID) (int64, error)

	// RecipeByID returns the first recipe with the given ID, or nil when none exists.
	RecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)

	// FetchRecipes returns recipes matching the query.
	FetchRecipes(ctx context.Context, query RecipeQuery) ([]model.Recipe, error)

	// RetypeRecipes changes the type of every recipe whose type equals from.
	RetypeRecipes(ctx context.Context, from, to string) (int64, error)

	// DeleteRecipesByType removes every recipe whose type equals typeName.
	DeleteRecipesByType(ctx context.Context, typeName string) (int64, error)

	// Save flushes pending mutations.
	Save(ctx context.Context) error

	// Discard drops pending mutations.
	Discard(ctx context.Context) error
}

// StringPtr returns a pointer to s, for query filters.
func StringPtr(s string) *string {
	return &s
}
