package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/remiblancher/mceliece/internal/api/service"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/internal/profile"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

func TestU_MapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"[Unit] MapError: decryption", fmt.Errorf("decrypt: %w", mceliece.ErrDecryption), http.StatusUnprocessableEntity, CodeDecryptionFailed},
		{"[Unit] MapError: ciphertext size", mceliece.ErrInvalidCiphertextSize, http.StatusUnprocessableEntity, CodeDecryptionFailed},
		{"[Unit] MapError: message too long", mceliece.ErrMessageTooLong, http.StatusBadRequest, CodeMessageTooLong},
		{"[Unit] MapError: parameters", fmt.Errorf("%w: t=1", mceliece.ErrInvalidParameters), http.StatusBadRequest, CodeInvalidParameters},
		{"[Unit] MapError: profile", fmt.Errorf("%w: x", profile.ErrNotFound), http.StatusNotFound, CodeProfileNotFound},
		{"[Unit] MapError: algorithm mismatch", keyfile.ErrAlgorithmMismatch, http.StatusUnprocessableEntity, CodeAlgorithmMismatch},
		{"[Unit] MapError: key format", keyfile.ErrInvalidFormat, http.StatusBadRequest, CodeInvalidFormat},
		{"[Unit] MapError: key version", keyfile.ErrUnsupportedVersion, http.StatusBadRequest, CodeInvalidFormat},
		{"[Unit] MapError: invalid key", mceliece.ErrInvalidKey, http.StatusBadRequest, CodeInvalidFormat},
		{"[Unit] MapError: invalid input", service.ErrInvalidInput, http.StatusBadRequest, CodeInvalidRequest},
		{"[Unit] MapError: key generation", mceliece.ErrKeyGenExhausted, http.StatusInternalServerError, CodeKeyGenFailed},
		{"[Unit] MapError: unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := MapError(tt.err)
			if status != tt.status || apiErr.Code != tt.code {
				t.Errorf("MapError() = %d %s, want %d %s", status, apiErr.Code, tt.status, tt.code)
			}
		})
	}
}

func TestU_MapError_Nil(t *testing.T) {
	status, apiErr := MapError(nil)
	if status != http.StatusOK || apiErr != nil {
		t.Errorf("MapError(nil) = %d %v", status, apiErr)
	}
}

func TestU_MapError_DecryptionIsOpaque(t *testing.T) {
	_, a := MapError(mceliece.ErrDecryption)
	_, b := MapError(mceliece.ErrInvalidCiphertextSize)
	if a.Message != b.Message {
		t.Errorf("decryption failures differ: %q vs %q", a.Message, b.Message)
	}
}

func TestU_Constructors(t *testing.T) {
	if e := NewBadRequest("x"); e.Code != CodeInvalidRequest || e.Message != "x" {
		t.Errorf("NewBadRequest() = %+v", e)
	}
	if e := NewNotFound("profile", "p"); e.Code != CodeNotFound || e.Details["id"] != "p" {
		t.Errorf("NewNotFound() = %+v", e)
	}
	if e := NewValidationError("bad", map[string]string{"m": "too large"}); e.Code != CodeValidation || e.Details["m"] == "" {
		t.Errorf("NewValidationError() = %+v", e)
	}
}
