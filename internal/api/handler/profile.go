package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/remiblancher/mceliece/internal/api/errors"
	"github.com/remiblancher/mceliece/internal/api/service"
)

// ProfileHandler handles profile-related HTTP requests.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: profileService}
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/profiles/{category}/{name}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	if name == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Profile name is required"))
		return
	}

	resp, err := h.service.Get(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
