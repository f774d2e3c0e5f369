package handler

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipebook/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "Validation",
			err:            model.ErrInvalidName,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidName,
			expectedMsg:    "Name must not be empty",
		},
		{
			name:           "Path outside export directory",
			err:            model.ErrInvalidPath,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidPath,
		},
		{
			name:           "Not found",
			err:            model.ErrRecipeNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeRecipeNotFound,
		},
		{
			name:           "Busy",
			err:            model.ErrBusy,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeBusy,
		},
		{
			name:           "In use",
			err:            model.ErrDishTypeInUse,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeDishTypeInUse,
		},
		{
			name:           "Decode",
			err:            &model.DecodeError{Path: "recipes.json", Index: 1, Field: "name", Err: errors.New("missing")},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeDecode,
			expectedMsg:    `decode recipes.json element 1 field "name": missing`,
		},
		{
			name:           "Read missing file",
			err:            &model.ReadError{Path: "recipes.json", Err: fs.ErrNotExist},
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeRead,
		},
		{
			name:           "Read other failure",
			err:            &model.ReadError{Path: "recipes.json", Err: fs.ErrPermission},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeRead,
		},
		{
			name:           "Persist",
			err:            &model.PersistError{Err: errors.New("disk full")},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodePersist,
		},
		{
			name:           "Unknown error hides details",
			err:            errors.New("connection refused to 10.0.0.1"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			writeServiceError(w, req, tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
		})
	}
}

func TestWriteServiceError_PartialExport(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", nil)
	w := httptest.NewRecorder()

	err := &model.PartialExportError{
		Written: []string{"export/recipes.json"},
		Err:     &model.WriteError{Path: "export/dish_types.json", Err: errors.New("disk full")},
	}
	writeServiceError(w, req, err, zerolog.Nop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodePartialExport, resp.Error)
	assert.Equal(t, []string{"export/recipes.json"}, resp.Written)
}
