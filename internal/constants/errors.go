package constants

import (
	"errors"
	"net/http"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
)

// APIError represents a standardized API error with code, message, and HTTP status.
// Use these predefined errors for consistent API responses across the application.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// WithMessage returns a copy of the APIError with a custom message.
// Useful for validation errors or other dynamic messages.
func (e APIError) WithMessage(message string) APIError {
	return APIError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// Common errors - shared across multiple modules
var (
	ErrInvalidRequestBody = APIError{
		Code:    CodeInvalidRequest,
		Message: MsgInvalidRequestBody,
		Status:  http.StatusBadRequest,
	}
	ErrInternalError = APIError{
		Code:    CodeInternalError,
		Message: MsgInternalError,
		Status:  http.StatusInternalServerError,
	}
)

// Shortener-specific errors
var (
	ErrInvalidURL = APIError{
		Code:    CodeInvalidURL,
		Message: MsgInvalidURL,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidValidity = APIError{
		Code:    CodeInvalidValidity,
		Message: MsgInvalidValidity,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidShortcode = APIError{
		Code:    CodeInvalidShortcode,
		Message: MsgInvalidShortcode,
		Status:  http.StatusBadRequest,
	}
	ErrShortcodeTaken = APIError{
		Code:    CodeShortcodeTaken,
		Message: MsgShortcodeTaken,
		Status:  http.StatusConflict,
	}
	ErrCodeSpaceExhausted = APIError{
		Code:    CodeCodeSpaceExhausted,
		Message: MsgCodeSpaceExhausted,
		Status:  http.StatusServiceUnavailable,
	}
	ErrBatchTooLarge = APIError{
		Code:    CodeBatchTooLarge,
		Message: MsgBatchTooLarge,
		Status:  http.StatusBadRequest,
	}
	ErrEmptyBatch = APIError{
		Code:    CodeEmptyBatch,
		Message: MsgEmptyBatch,
		Status:  http.StatusBadRequest,
	}
	ErrLinkExpired = APIError{
		Code:    CodeLinkExpired,
		Message: MsgLinkExpired,
		Status:  http.StatusGone,
	}
	ErrLinkNotFound = APIError{
		Code:    CodeLinkNotFound,
		Message: MsgLinkNotFound,
		Status:  http.StatusNotFound,
	}
	ErrStorageUnavailable = APIError{
		Code:    CodeStorageUnavailable,
		Message: MsgStorageUnavailable,
		Status:  http.StatusServiceUnavailable,
	}
)

// FromLinksError maps a links package error to its API error. Unknown errors
// map to ErrInternalError.
func FromLinksError(err error) APIError {
	var storageErr *links.StorageError
	switch {
	case errors.Is(err, links.ErrInvalidURL):
		return ErrInvalidURL
	case errors.Is(err, links.ErrInvalidValidity):
		return ErrInvalidValidity
	case errors.Is(err, links.ErrInvalidShortcodeFormat):
		return ErrInvalidShortcode
	case errors.Is(err, links.ErrShortcodeCollision):
		return ErrShortcodeTaken
	case errors.Is(err, links.ErrCodeSpaceExhausted):
		return ErrCodeSpaceExhausted
	case errors.Is(err, links.ErrBatchTooLarge):
		return ErrBatchTooLarge
	case errors.Is(err, links.ErrEmptyBatch):
		return ErrEmptyBatch
	case errors.Is(err, links.ErrNotFound):
		return ErrLinkNotFound
	case errors.As(err, &storageErr):
		return ErrStorageUnavailable
	default:
		return ErrInternalError
	}
}
