// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/remiblancher/mceliece/internal/api/dto"
	apierrors "github.com/remiblancher/mceliece/internal/api/errors"
	"github.com/remiblancher/mceliece/internal/profile"
)

// maxBodySize bounds request bodies. A raw private key for m=12 is a few
// megabytes once armored.
const maxBodySize = 16 << 20

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	version  string
	services []string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, services []string) *HealthHandler {
	return &HealthHandler{
		version:  version,
		services: services,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	serviceStatus := make(map[string]string)
	for _, s := range h.services {
		serviceStatus[s] = "ok"
	}

	resp := dto.HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Services: serviceStatus,
	}

	respondJSON(w, http.StatusOK, resp)
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, profErr := profile.Builtin()
	checks := map[string]bool{
		"server":   true,
		"profiles": profErr == nil,
	}

	allReady := true
	for _, ready := range checks {
		if !ready {
			allReady = false
			break
		}
	}

	resp := dto.ReadyResponse{
		Ready:  allReady,
		Checks: checks,
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, apiErr *dto.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}

// handleServiceError maps a service error to its HTTP response.
func handleServiceError(w http.ResponseWriter, err error) {
	status, apiErr := apierrors.MapError(err)
	respondError(w, status, apiErr)
}

// decodeJSON reads a bounded JSON body into v and writes the error
// response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Invalid JSON request body"))
		return false
	}
	return true
}
