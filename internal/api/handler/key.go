package handler

import (
	"net/http"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/api/service"
)

// KeyHandler handles key-related HTTP requests.
type KeyHandler struct {
	service *service.KeyService
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(keyService *service.KeyService) *KeyHandler {
	return &KeyHandler{service: keyService}
}

// Generate handles POST /api/v1/keys/generate
func (h *KeyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.KeyGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Info handles POST /api/v1/keys/info
func (h *KeyHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req dto.KeyInfoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Info(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
