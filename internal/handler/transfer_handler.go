package handler

import (
	"net/http"
	"path/filepath"

	"recipebook/internal/model"
	"recipebook/internal/service"

	"github.com/rs/zerolog"
)

// TransferHandler handles catalog import and export requests.
// Request paths are resolved inside baseDir.
type TransferHandler struct {
	service service.TransferService
	baseDir string
	logger  zerolog.Logger
}

// NewTransferHandler creates a new transfer handler that confines document
// paths to baseDir.
func NewTransferHandler(service service.TransferService, baseDir string, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		baseDir: baseDir,
		logger:  logger.With().Str("handler", "transfer").Logger(),
	}
}

// resolvePaths maps request paths into baseDir. Empty paths stay empty;
// absolute paths and paths leaving baseDir are rejected.
func (h *TransferHandler) resolvePaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" {
			continue
		}
		if filepath.IsAbs(*p) || !filepath.IsLocal(*p) {
			return model.ErrInvalidPath
		}
		*p = filepath.Join(h.baseDir, *p)
	}
	return nil
}

// Export handles POST /api/v1/export requests.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req, h.logger) {
		return
	}
	if err := h.resolvePaths(&req.RecipesPath, &req.DishTypesPath); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.ExportCatalog(r.Context(), service.ExportRequest{
		RecipesPath:   req.RecipesPath,
		DishTypesPath: req.DishTypesPath,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Import handles POST /api/v1/import requests.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if err := h.resolvePaths(&req.RecipesPath, &req.DishTypesPath); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	// An empty policy leaves the configured default in charge.
	var policy model.MergePolicy
	if req.Policy != "" {
		parsed, err := model.ParseMergePolicy(req.Policy)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidMergePolicy, err.Error(), h.logger)
			return
		}
		policy = parsed
	}

	summary, err := h.service.ImportCatalog(r.Context(), service.ImportRequest{
		RecipesPath:     req.RecipesPath,
		DishTypesPath:   req.DishTypesPath,
		ReplaceExisting: req.ReplaceExisting,
		Policy:          policy,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
