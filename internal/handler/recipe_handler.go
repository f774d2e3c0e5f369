package handler

import (
	"net/http"

	"recipebook/internal/model"
	"recipebook/internal/service"

	"github.com/rs/zerolog"
)

// RecipeHandler handles recipe HTTP requests.
type RecipeHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(service service.CatalogService, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.With().Str("handler", "recipe").Logger(),
	}
}

// List handles GET /api/v1/recipes requests.
// ?q= searches recipes; otherwise ?type= filters by dish type name.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		recipes []model.Recipe
		err     error
	)
	if q := query.Get("q"); q != "" {
		recipes, err = h.service.SearchRecipes(r.Context(), q)
	} else {
		recipes, err = h.service.ListRecipes(r.Context(), query.Get("type"))
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		resp = append(resp, toRecipeResponse(recipe))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/recipes/{id} requests. The response embeds the
// resolved dish type when the recipe's type names an existing one.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	recipe, err := h.service.Recipe(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	dishType, err := h.service.ResolveType(r.Context(), *recipe)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp := toRecipeResponse(*recipe)
	if dishType != nil {
		dt := toDishTypeResponse(*dishType)
		resp.DishType = &dt
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/recipes requests.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	recipe, err := h.service.CreateRecipe(r.Context(), toRecipeInput(req))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeResponse(*recipe))
}

// Update handles PUT /api/v1/recipes/{id} requests.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req RecipeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	recipe, err := h.service.UpdateRecipe(r.Context(), id, toRecipeInput(req))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(*recipe))
}

// Delete handles DELETE /api/v1/recipes/{id} requests.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteRecipe(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toRecipeInput(req RecipeRequest) service.RecipeInput {
	return service.RecipeInput{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Type:        req.Type,
		Image:       imageFromRequest(req.Image),
	}
}
