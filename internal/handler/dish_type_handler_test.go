package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipebook/internal/model"
	"recipebook/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDishTypeHandler_List(t *testing.T) {
	salad := model.NewDishType("Салат", model.NewImage([]byte("png")))
	soups := model.NewDishType("Супы", model.NoImage)

	mockService := new(MockCatalogService)
	mockService.On("ListDishTypes", mock.Anything).Return([]model.DishType{salad, soups}, nil)

	handler := NewDishTypeHandler(mockService, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dish-types", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":"`+salad.ID.String()+`","name":"Салат","image":"cG5n"},
		{"id":"`+soups.ID.String()+`","name":"Супы"}
	]`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestDishTypeHandler_Get(t *testing.T) {
	salad := model.NewDishType("Салат", model.NoImage)

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockCatalogService)
		expectedStatus int
	}{
		{
			name: "Success",
			id:   salad.ID.String(),
			setupMock: func(m *MockCatalogService) {
				m.On("DishType", mock.Anything, salad.ID).Return(&salad, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not found",
			id:   salad.ID.String(),
			setupMock: func(m *MockCatalogService) {
				m.On("DishType", mock.Anything, salad.ID).Return(nil, model.ErrDishTypeNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid id",
			id:             "not-a-uuid",
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			tt.setupMock(mockService)

			handler := NewDishTypeHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dish-types/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.Get(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDishTypeHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockCatalogService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success with image",
			body: `{"name":"Салат","image":"cG5n"}`,
			setupMock: func(m *MockCatalogService) {
				input := service.DishTypeInput{Name: "Салат", Image: model.NewImage([]byte("png"))}
				created := model.NewDishType("Салат", model.NewImage([]byte("png")))
				m.On("CreateDishType", mock.Anything, input).Return(&created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Validation error",
			body: `{"name":""}`,
			setupMock: func(m *MockCatalogService) {
				m.On("CreateDishType", mock.Anything, service.DishTypeInput{Name: "", Image: model.NoImage}).
					Return(nil, model.ErrInvalidName)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidName,
		},
		{
			name:           "Invalid JSON",
			body:           `{"name":`,
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			tt.setupMock(mockService)

			handler := NewDishTypeHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/dish-types", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestDishTypeHandler_Update(t *testing.T) {
	id := uuid.New()
	renamed := model.DishType{ID: id, Name: "Салаты", Image: model.NoImage}

	mockService := new(MockCatalogService)
	mockService.On("UpdateDishType", mock.Anything, id, service.DishTypeInput{Name: "Салаты", Image: model.NoImage}).
		Return(&renamed, nil)

	handler := NewDishTypeHandler(mockService, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPut, "/api/v1/dish-types/"+id.String(), strings.NewReader(`{"name":"Салаты"}`))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp DishTypeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Салаты", resp.Name)
	assert.Nil(t, resp.Image)
	mockService.AssertExpectations(t)
}

func TestDishTypeHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "Success", expectedStatus: http.StatusNoContent},
		{name: "Still in use", err: model.ErrDishTypeInUse, expectedStatus: http.StatusConflict},
		{name: "Not found", err: model.ErrDishTypeNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			mockService := new(MockCatalogService)
			mockService.On("DeleteDishType", mock.Anything, id).Return(tt.err)

			handler := NewDishTypeHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/dish-types/"+id.String(), nil)
			req.SetPathValue("id", id.String())
			w := httptest.NewRecorder()

			handler.Delete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
