// Package router provides HTTP routing configuration using Chi.
package router

import (
	_ "embed"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/mceliece/internal/api/handler"
	"github.com/remiblancher/mceliece/internal/api/middleware"
	"github.com/remiblancher/mceliece/internal/api/service"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Config holds router configuration.
type Config struct {
	Services []string
	Version  string

	// Random is the randomness source for key generation and encryption.
	// Nil uses crypto/rand.
	Random io.Reader
}

// HasService checks if a service is enabled.
func (c *Config) HasService(name string) bool {
	for _, s := range c.Services {
		if s == "all" || s == name {
			return true
		}
	}
	return false
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS)

	// Health endpoints (always enabled)
	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Services)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// OpenAPI spec
	r.Get("/api/openapi.yaml", serveOpenAPISpec)

	if cfg.HasService("api") {
		keyHandler := handler.NewKeyHandler(service.NewKeyService(cfg.Random))
		cipherHandler := handler.NewCipherHandler(service.NewCipherService(cfg.Random))
		profileHandler := handler.NewProfileHandler(service.NewProfileService())

		r.Route("/api/v1", func(r chi.Router) {
			// Key operations
			r.Route("/keys", func(r chi.Router) {
				r.Post("/generate", keyHandler.Generate)
				r.Post("/info", keyHandler.Info)
			})

			// Cipher operations
			r.Post("/encrypt", cipherHandler.Encrypt)
			r.Post("/decrypt", cipherHandler.Decrypt)

			// Profile operations; names contain a slash ("cca2/fujisaki").
			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", profileHandler.List)
				r.Get("/*", profileHandler.Get)
			})
		})
	}

	return r
}

// serveOpenAPISpec serves the OpenAPI specification file.
func serveOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiSpec)
}
