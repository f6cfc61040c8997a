package errors

import (
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/taskboard/internal/repository"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Business logic errors
	ErrCodeOperationFailed = "OPERATION_FAILED"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStorageError       = "STORAGE_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined errors
var (
	ErrNotFound           = NewAPIError(ErrCodeNotFound, "Resource not found")
	ErrInvalidInput       = NewAPIError(ErrCodeInvalidInput, "Invalid request body")
	ErrInternalError      = NewAPIError(ErrCodeInternalError, "Internal server error")
	ErrStorage            = NewAPIError(ErrCodeStorageError, "Failed to save changes")
	ErrServiceUnavailable = NewAPIError(ErrCodeServiceUnavailable, "Service temporarily unavailable")
)

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		RespondWithError(c, http.StatusNotFound, ErrNotFound)
		return
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		RespondWithError(c, http.StatusBadRequest, ErrInvalidInput)
		return
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// BindError sends a 400 response for a request body that failed to bind
func BindError(c *gin.Context, err error) {
	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
	)
	switch {
	case stderrors.As(err, &validationErrs):
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fe.Field())
		}
		RespondWithError(c, http.StatusBadRequest,
			NewAPIErrorWithDetails(ErrCodeMissingField, "Missing required fields", gin.H{"fields": fields}))
	case stderrors.As(err, &syntaxErr):
		RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidFormat, "Malformed JSON body"))
	case stderrors.As(err, &typeErr):
		BadRequestWithDetails(c, "Invalid field type", gin.H{"field": typeErr.Field})
	default:
		BadRequest(c, "")
	}
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		RespondWithError(c, http.StatusInternalServerError, ErrInternalError)
		return
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// StorageError sends a 500 response for a rejected write
func StorageError(c *gin.Context, message string) {
	if message == "" {
		RespondWithError(c, http.StatusInternalServerError, ErrStorage)
		return
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeStorageError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		RespondWithError(c, http.StatusServiceUnavailable, ErrServiceUnavailable)
		return
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// FromService maps a service error to a response and logs it
func FromService(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	switch {
	case stderrors.Is(err, repository.ErrStorageWrite):
		StorageError(c, "")
	case stderrors.Is(err, repository.ErrStorageRead):
		StorageError(c, "Failed to read stored data")
	default:
		InternalError(c, "")
	}
}
