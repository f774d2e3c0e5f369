package handler

import (
	"context"

	"recipebook/internal/model"
	"recipebook/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListDishTypes(ctx context.Context) ([]model.DishType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DishType), args.Error(1)
}

func (m *MockCatalogService) DishType(ctx context.Context, id uuid.UUID) (*model.DishType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DishType), args.Error(1)
}

func (m *MockCatalogService) ResolveType(ctx context.Context, recipe model.Recipe) (*model.DishType, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DishType), args.Error(1)
}

func (m *MockCatalogService) CreateDishType(ctx context.Context, input service.DishTypeInput) (*model.DishType, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DishType), args.Error(1)
}

func (m *MockCatalogService) UpdateDishType(ctx context.Context, id uuid.UUID, input service.DishTypeInput) (*model.DishType, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DishType), args.Error(1)
}

func (m *MockCatalogService) DeleteDishType(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListRecipes(ctx context.Context, typeName string) ([]model.Recipe, error) {
	args := m.Called(ctx, typeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockCatalogService) SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockCatalogService) Recipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockCatalogService) CreateRecipe(ctx context.Context, input service.RecipeInput) (*model.Recipe, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockCatalogService) UpdateRecipe(ctx context.Context, id uuid.UUID, input service.RecipeInput) (*model.Recipe, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockCatalogService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransferService is a mock implementation of TransferService.
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) ExportCatalog(ctx context.Context, req service.ExportRequest) (*service.ExportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockTransferService) ImportCatalog(ctx context.Context, req service.ImportRequest) (*service.ImportSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportSummary), args.Error(1)
}
