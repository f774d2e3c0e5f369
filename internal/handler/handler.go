package handler

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"recipebook/internal/middleware"
	"recipebook/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; images travel inline as base64.
const maxBodyBytes = 16 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.CorrelationID(r.Context())
	logger.Error().
		Str("error", message).
		Str("code", code).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error to its HTTP status and writes it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	code := model.ErrorCode(err)
	status := statusFor(code, err)

	message := err.Error()
	if code == model.ErrCodeInternalError {
		message = "internal server error"
	}

	resp := model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationID(r.Context()),
	}

	var partialErr *model.PartialExportError
	if errors.As(err, &partialErr) {
		resp.Written = partialErr.Written
	}

	logger.Error().
		Err(err).
		Str("code", code).
		Int("status", status).
		Str("correlation_id", resp.CorrelationID).
		Msg("request failed")
	writeJSON(w, status, resp)
}

func statusFor(code string, err error) int {
	switch code {
	case model.ErrCodeInvalidName,
		model.ErrCodeInvalidDescription,
		model.ErrCodeInvalidMergePolicy,
		model.ErrCodeNothingToImport,
		model.ErrCodeDuplicateExportPath,
		model.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case model.ErrCodeDishTypeNotFound, model.ErrCodeRecipeNotFound:
		return http.StatusNotFound
	case model.ErrCodeDishTypeInUse, model.ErrCodeBusy:
		return http.StatusConflict
	case model.ErrCodeDecode:
		return http.StatusUnprocessableEntity
	case model.ErrCodeRead:
		if errors.Is(err, fs.ErrNotExist) {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes the JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid id", logger)
		return uuid.Nil, false
	}
	return id, true
}
