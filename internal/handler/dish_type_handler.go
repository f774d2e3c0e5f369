package handler

import (
	"net/http"

	"recipebook/internal/service"

	"github.com/rs/zerolog"
)

// DishTypeHandler handles dish type HTTP requests.
type DishTypeHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewDishTypeHandler creates a new dish type handler.
func NewDishTypeHandler(service service.CatalogService, logger zerolog.Logger) *DishTypeHandler {
	return &DishTypeHandler{
		service: service,
		logger:  logger.With().Str("handler", "dish_type").Logger(),
	}
}

// List handles GET /api/v1/dish-types requests.
func (h *DishTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	dishTypes, err := h.service.ListDishTypes(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp := make([]DishTypeResponse, 0, len(dishTypes))
	for _, dt := range dishTypes {
		resp = append(resp, toDishTypeResponse(dt))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/dish-types/{id} requests.
func (h *DishTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	dishType, err := h.service.DishType(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toDishTypeResponse(*dishType))
}

// Create handles POST /api/v1/dish-types requests.
func (h *DishTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DishTypeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	dishType, err := h.service.CreateDishType(r.Context(), service.DishTypeInput{
		Name:  req.Name,
		Image: imageFromRequest(req.Image),
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toDishTypeResponse(*dishType))
}

// Update handles PUT /api/v1/dish-types/{id} requests.
func (h *DishTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req DishTypeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	dishType, err := h.service.UpdateDishType(r.Context(), id, service.DishTypeInput{
		Name:  req.Name,
		Image: imageFromRequest(req.Image),
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toDishTypeResponse(*dishType))
}

// Delete handles DELETE /api/v1/dish-types/{id} requests.
func (h *DishTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteDishType(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
