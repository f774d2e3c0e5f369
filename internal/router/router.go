package router

import (
	"net/http"

	"recipebook/internal/handler"
	"recipebook/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	dishTypeHandler *handler.DishTypeHandler,
	recipeHandler *handler.RecipeHandler,
	transferHandler *handler.TransferHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/v1/dish-types", dishTypeHandler.List)
	mux.HandleFunc("POST /api/v1/dish-types", dishTypeHandler.Create)
	mux.HandleFunc("GET /api/v1/dish-types/{id}", dishTypeHandler.Get)
	mux.HandleFunc("PUT /api/v1/dish-types/{id}", dishTypeHandler.Update)
	mux.HandleFunc("DELETE /api/v1/dish-types/{id}", dishTypeHandler.Delete)

	mux.HandleFunc("GET /api/v1/recipes", recipeHandler.List)
	mux.HandleFunc("POST /api/v1/recipes", recipeHandler.Create)
	mux.HandleFunc("GET /api/v1/recipes/{id}", recipeHandler.Get)
	mux.HandleFunc("PUT /api/v1/recipes/{id}", recipeHandler.Update)
	mux.HandleFunc("DELETE /api/v1/recipes/{id}", recipeHandler.Delete)

	mux.HandleFunc("POST /api/v1/export", transferHandler.Export)
	mux.HandleFunc("POST /api/v1/import", transferHandler.Import)

	// Apply middleware in order: CorrelationID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.WithCorrelationID(handler)

	return handler
}
