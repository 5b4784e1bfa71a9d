package handler

import (
	"net/http"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/api/service"
)

// CipherHandler handles encryption and decryption requests.
type CipherHandler struct {
	service *service.CipherService
}

// NewCipherHandler creates a new CipherHandler.
func NewCipherHandler(cipherService *service.CipherService) *CipherHandler {
	return &CipherHandler{service: cipherService}
}

// Encrypt handles POST /api/v1/encrypt
func (h *CipherHandler) Encrypt(w http.ResponseWriter, r *http.Request) {
	var req dto.EncryptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Encrypt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Decrypt handles POST /api/v1/decrypt
func (h *CipherHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	var req dto.DecryptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Decrypt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
