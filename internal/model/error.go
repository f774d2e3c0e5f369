package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Written       []string `json:"written,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidID           = "INVALID_ID"
	ErrCodeInvalidName         = "INVALID_NAME"
	ErrCodeInvalidDescription  = "INVALID_DESCRIPTION"
	ErrCodeDishTypeNotFound    = "DISH_TYPE_NOT_FOUND"
	ErrCodeRecipeNotFound      = "RECIPE_NOT_FOUND"
	ErrCodeDishTypeInUse       = "DISH_TYPE_IN_USE"
	ErrCodeDecode              = "DECODE_ERROR"
	ErrCodeRead                = "READ_ERROR"
	ErrCodeWrite               = "WRITE_ERROR"
	ErrCodePartialExport       = "PARTIAL_EXPORT"
	ErrCodePersist             = "PERSIST_ERROR"
	ErrCodeBusy                = "BUSY"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeInvalidMergePolicy  = "INVALID_MERGE_POLICY"
	ErrCodeNothingToImport     = "NOTHING_TO_IMPORT"
	ErrCodeDuplicateExportPath = "DUPLICATE_EXPORT_PATH"
	ErrCodeInvalidPath         = "INVALID_PATH"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidName         = NewDomainError(ErrCodeInvalidName, "Name must not be empty")
	ErrInvalidDescription  = NewDomainError(ErrCodeInvalidDescription, "Description must not be empty")
	ErrDishTypeNotFound    = NewDomainError(ErrCodeDishTypeNotFound, "Dish type not found")
	ErrRecipeNotFound      = NewDomainError(ErrCodeRecipeNotFound, "Recipe not found")
	ErrDishTypeInUse       = NewDomainError(ErrCodeDishTypeInUse, "Dish type is still referenced by recipes")
	ErrNothingToImport     = NewDomainError(ErrCodeNothingToImport, "At least one import file must be provided")
	ErrDuplicateExportPath = NewDomainError(ErrCodeDuplicateExportPath, "Recipes and dish types must be exported to distinct destinations")
	ErrInvalidPath         = NewDomainError(ErrCodeInvalidPath, "Document paths must be relative and stay inside the export directory")

	// ErrBusy is returned when an import or export is requested while another
	// one is still running.
	ErrBusy = NewDomainError(ErrCodeBusy, "Another import or export is in progress")
)

// DecodeError reports a document that is not valid JSON or lacks a required field.
type DecodeError struct {
	// Path is the document location, empty when decoding raw bytes.
	Path string
	// Index is the offending array element, -1 for document-level problems.
	Index int
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " element %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ReadError reports a document that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a document that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PartialExportError reports an export whose later write failed after earlier
// documents were already written. Written documents are not removed.
type PartialExportError struct {
	Written []string
	Err     error
}

func (e *PartialExportError) Error() string {
	return fmt.Sprintf("export incomplete (written: %s): %v", strings.Join(e.Written, ", "), e.Err)
}

func (e *PartialExportError) Unwrap() error {
	return e.Err
}

// PersistError reports a failed store save.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist catalog: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error to its API error code.
func ErrorCode(err error) string {
	var (
		domainErr  *DomainError
		decodeErr  *DecodeError
		readErr    *ReadError
		writeErr   *WriteError
		partialErr *PartialExportError
		persistErr *PersistError
	)
	switch {
	case errors.As(err, &domainErr):
		return domainErr.Code
	case errors.As(err, &partialErr):
		return ErrCodePartialExport
	case errors.As(err, &decodeErr):
		return ErrCodeDecode
	case errors.As(err, &readErr):
		return ErrCodeRead
	case errors.As(err, &writeErr):
		return ErrCodeWrite
	case errors.As(err, &persistErr):
		return ErrCodePersist
	default:
		return ErrCodeInternalError
	}
}
