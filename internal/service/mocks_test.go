package service

import (
	"context"
	"path/filepath"
	"testing"

	"recipebook/internal/model"
	"recipebook/internal/repository"
	"recipebook/internal/repository/sqlite"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogStore is a mock implementation of CatalogStore.
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) InsertDishType(ctx context.Context, dishType model.DishType) error {
	args := m.Called(ctx, dishType)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateDishType(ctx context.Context, dishType model.DishType) (int64, error) {
	args := m.Called(ctx, dishType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) DeleteDishType(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) DishTypeByID(ctx context.Context, id uuid.UUID) (*model.DishType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DishType), args.Error(1)
}

func (m *MockCatalogStore) FetchDishTypes(ctx context.Context, query repository.DishTypeQuery) ([]model.DishType, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DishType), args.Error(1)
}

func (m *MockCatalogStore) InsertRecipe(ctx context.Context, recipe model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateRecipe(ctx context.Context, recipe model.Recipe) (int64, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) DeleteRecipe(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) RecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockCatalogStore) FetchRecipes(ctx context.Context, query repository.RecipeQuery) ([]model.Recipe, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockCatalogStore) RetypeRecipes(ctx context.Context, from, to string) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) DeleteRecipesByType(ctx context.Context, typeName string) (int64, error) {
	args := m.Called(ctx, typeName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogStore) Discard(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// newSQLiteSession returns a session over an empty SQLite catalog in a temp dir.
func newSQLiteSession(t *testing.T) *Session {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.sqlite"))
	require.NoError(t, err)

	store, err := sqlite.New(db, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return NewSession(store, zerolog.Nop())
}

// seedCatalog saves the given records directly through the store.
func seedCatalog(t *testing.T, session *Session, dishTypes []model.DishType, recipes []model.Recipe) {
	t.Helper()
	ctx := context.Background()

	for _, dt := range dishTypes {
		require.NoError(t, session.Store().InsertDishType(ctx, dt))
	}
	for _, r := range recipes {
		require.NoError(t, session.Store().InsertRecipe(ctx, r))
	}
	require.NoError(t, session.Store().Save(ctx))
}
