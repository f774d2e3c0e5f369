// Package repositorytest holds behaviour tests shared by every CatalogStore implementation.
package repositorytest

import (
	"context"
	"testing"

	"recipebook/internal/model"
	"recipebook/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Stores are cleaned up by the factory.
type Factory func(t *testing.T) repository.CatalogStore

// Run exercises the CatalogStore contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("inserted records are visible before save", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		dt := model.NewDishType("Салат", model.NoImage)
		require.NoError(t, store.InsertDishType(ctx, dt))

		got, err := store.DishTypeByID(ctx, dt.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, dt, *got)
	})

	t.Run("discard drops pending mutations", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		kept := model.NewDishType("Супы", model.NoImage)
		require.NoError(t, store.InsertDishType(ctx, kept))
		require.NoError(t, store.Save(ctx))

		dropped := model.NewDishType("Десерты", model.NoImage)
		require.NoError(t, store.InsertDishType(ctx, dropped))
		_, err := store.DeleteDishType(ctx, kept.ID)
		require.NoError(t, err)
		require.NoError(t, store.Discard(ctx))

		dishTypes, err := store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByName})
		require.NoError(t, err)
		require.Len(t, dishTypes, 1)
		assert.Equal(t, kept.ID, dishTypes[0].ID)
	})

	t.Run("save and discard without pending changes are no-ops", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		assert.NoError(t, store.Save(ctx))
		assert.NoError(t, store.Discard(ctx))
	})

	t.Run("images round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		withImage := model.NewDishType("With image", model.NewImage([]byte{0x89, 'P', 'N', 'G'}))
		emptyImage := model.NewDishType("Empty image", model.NewImage(nil))
		noImage := model.NewDishType("No image", model.NoImage)
		for _, dt := range []model.DishType{withImage, emptyImage, noImage} {
			require.NoError(t, store.InsertDishType(ctx, dt))
		}
		require.NoError(t, store.Save(ctx))

		for _, want := range []model.DishType{withImage, emptyImage, noImage} {
			got, err := store.DishTypeByID(ctx, want.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, want.Image.Equal(got.Image), "image mismatch for %s", want.Name)
		}
	})

	t.Run("recipes round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		recipe := model.NewRecipe("Оливье", "Нарезать", []string{"картофель", "горошек"}, "Салат", model.NewImage([]byte("img")))
		bare := model.NewRecipe("Чай", "Заварить", nil, "", model.NoImage)
		require.NoError(t, store.InsertRecipe(ctx, recipe))
		require.NoError(t, store.InsertRecipe(ctx, bare))
		require.NoError(t, store.Save(ctx))

		got, err := store.RecipeByID(ctx, recipe.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, recipe.Name, got.Name)
		assert.Equal(t, recipe.Description, got.Description)
		assert.Equal(t, recipe.Ingredients, got.Ingredients)
		assert.Equal(t, recipe.Type, got.Type)
		assert.True(t, recipe.Image.Equal(got.Image))

		got, err = store.RecipeByID(ctx, bare.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{}, got.Ingredients)
		assert.False(t, got.Image.Present())
	})

	t.Run("lookup of unknown id returns nil", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		dt, err := store.DishTypeByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, dt)

		recipe, err := store.RecipeByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, recipe)
	})

	t.Run("fetch sorts and filters", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"Супы", "Десерты", "Салат"} {
			require.NoError(t, store.InsertDishType(ctx, model.NewDishType(name, model.NoImage)))
		}
		for _, r := range []model.Recipe{
			model.NewRecipe("Щи", "d", nil, "Супы", model.NoImage),
			model.NewRecipe("Борщ", "d", nil, "Супы", model.NoImage),
			model.NewRecipe("Цезарь", "d", nil, "Салат", model.NoImage),
			model.NewRecipe("Без типа", "d", nil, "", model.NoImage),
		} {
			require.NoError(t, store.InsertRecipe(ctx, r))
		}
		require.NoError(t, store.Save(ctx))

		byName, err := store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByName})
		require.NoError(t, err)
		assert.Equal(t, []string{"Десерты", "Салат", "Супы"}, dishTypeNames(byName))

		byInsertion, err := store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByInsertion})
		require.NoError(t, err)
		assert.Equal(t, []string{"Супы", "Десерты", "Салат"}, dishTypeNames(byInsertion))

		named, err := store.FetchDishTypes(ctx, repository.DishTypeQuery{Name: repository.StringPtr("Салат")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Салат"}, dishTypeNames(named))

		soups, err := store.FetchRecipes(ctx, repository.RecipeQuery{Type: repository.StringPtr("Супы"), Sort: repository.SortByName})
		require.NoError(t, err)
		assert.Equal(t, []string{"Борщ", "Щи"}, recipeNames(soups))

		untyped, err := store.FetchRecipes(ctx, repository.RecipeQuery{Type: repository.StringPtr("")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Без типа"}, recipeNames(untyped))

		all, err := store.FetchRecipes(ctx, repository.RecipeQuery{Sort: repository.SortByName})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("duplicate ids create extra rows", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		dt := model.NewDishType("Салат", model.NoImage)
		require.NoError(t, store.InsertDishType(ctx, dt))
		require.NoError(t, store.InsertDishType(ctx, dt))
		require.NoError(t, store.Save(ctx))

		dishTypes, err := store.FetchDishTypes(ctx, repository.DishTypeQuery{})
		require.NoError(t, err)
		assert.Len(t, dishTypes, 2)

		updated := dt
		updated.Name = "Салаты"
		n, err := store.UpdateDishType(ctx, updated)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = store.DeleteDishType(ctx, dt.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		require.NoError(t, store.Save(ctx))

		dishTypes, err = store.FetchDishTypes(ctx, repository.DishTypeQuery{})
		require.NoError(t, err)
		assert.Empty(t, dishTypes)
	})

	t.Run("update recipe matches by id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		recipe := model.NewRecipe("Борщ", "Варить", []string{"свёкла"}, "Супы", model.NoImage)
		require.NoError(t, store.InsertRecipe(ctx, recipe))

		recipe.Description = "Варить два часа"
		recipe.Ingredients = append(recipe.Ingredients, "капуста")
		recipe.Image = model.NewImage([]byte("photo"))
		n, err := store.UpdateRecipe(ctx, recipe)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.UpdateRecipe(ctx, model.NewRecipe("Ghost", "d", nil, "", model.NoImage))
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
		require.NoError(t, store.Save(ctx))

		got, err := store.RecipeByID(ctx, recipe.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Варить два часа", got.Description)
		assert.Equal(t, []string{"свёкла", "капуста"}, got.Ingredients)
		assert.True(t, got.Image.Present())
	})

	t.Run("retype and delete by type", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, r := range []model.Recipe{
			model.NewRecipe("Борщ", "d", nil, "Супы", model.NoImage),
			model.NewRecipe("Щи", "d", nil, "Супы", model.NoImage),
			model.NewRecipe("Цезарь", "d", nil, "Салат", model.NoImage),
		} {
			require.NoError(t, store.InsertRecipe(ctx, r))
		}

		n, err := store.RetypeRecipes(ctx, "Супы", "Первые блюда")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = store.DeleteRecipesByType(ctx, "Салат")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, store.Save(ctx))

		recipes, err := store.FetchRecipes(ctx, repository.RecipeQuery{Sort: repository.SortByName})
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		for _, r := range recipes {
			assert.Equal(t, "Первые блюда", r.Type)
		}
	})
}

func dishTypeNames(dishTypes []model.DishType) []string {
	names := make([]string, 0, len(dishTypes))
	for _, dt := range dishTypes {
		names = append(names, dt.Name)
	}
	return names
}

func recipeNames(recipes []model.Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}
