// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/api/service"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/internal/profile"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// Error codes for API responses.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeInvalidParameters = "INVALID_PARAMETERS"
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeAlgorithmMismatch = "ALGORITHM_MISMATCH"
	CodeMessageTooLong    = "MESSAGE_TOO_LONG"
	CodeDecryptionFailed  = "DECRYPTION_FAILED"
	CodeKeyGenFailed      = "KEYGEN_FAILED"
)

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	// Every decryption failure shares one code and one message.
	case errors.Is(err, mceliece.ErrDecryption), errors.Is(err, mceliece.ErrInvalidCiphertextSize):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeDecryptionFailed,
			Message: "decryption failed",
		}
	case errors.Is(err, mceliece.ErrMessageTooLong):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeMessageTooLong,
			Message: err.Error(),
		}
	case errors.Is(err, mceliece.ErrInvalidParameters):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidParameters,
			Message: err.Error(),
		}
	case errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound, &dto.APIError{
			Code:    CodeProfileNotFound,
			Message: err.Error(),
		}
	case errors.Is(err, keyfile.ErrAlgorithmMismatch):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeAlgorithmMismatch,
			Message: err.Error(),
		}
	case errors.Is(err, keyfile.ErrInvalidFormat), errors.Is(err, keyfile.ErrUnsupportedVersion),
		errors.Is(err, mceliece.ErrInvalidKey):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidFormat,
			Message: err.Error(),
		}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidRequest,
			Message: err.Error(),
		}
	case errors.Is(err, mceliece.ErrKeyGenExhausted):
		return http.StatusInternalServerError, &dto.APIError{
			Code:    CodeKeyGenFailed,
			Message: err.Error(),
		}
	}

	// Default internal error
	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(resource, id string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Details: map[string]string{"id": id},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, details map[string]string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}
