package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/remiblancher/mceliece/internal/api/router"
)

// Server represents the HTTP server.
type Server struct {
	cfg     *Config
	version string
	srv     *http.Server
	logger  *slog.Logger
}

// New creates a new Server.
func New(cfg *Config, version string) *Server {
	return &Server{
		cfg:     cfg,
		version: version,
		logger:  slog.Default(),
	}
}

// Handler builds the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return router.New(&router.Config{
		Services: s.cfg.Services,
		Version:  s.version,
		Random:   s.cfg.Random,
	})
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.cfg.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.printStartupInfo()

	return s.run()
}

// run starts the server and handles graceful shutdown.
func (s *Server) run() error {
	errChan := make(chan error, 1)

	go func() {
		if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
			errChan <- s.srv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- s.srv.ListenAndServe()
		}
	}()

	// Wait for shutdown signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info("shutting down", "signal", sig.String())
		return s.Shutdown()
	}

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// printStartupInfo prints server startup information.
func (s *Server) printStartupInfo() {
	fmt.Println()
	fmt.Println("McEliece API Server")
	fmt.Println("===================")
	fmt.Printf("  Version:  %s\n", s.version)
	fmt.Printf("  Address:  http://%s\n", s.cfg.Address())
	if s.cfg.TLSCert != "" {
		fmt.Println("  TLS:      enabled")
	}
	fmt.Println()
	s.printEndpoints()
	fmt.Println()
	fmt.Println("Use Ctrl+C to stop")
	fmt.Println()
}

// printEndpoints prints available endpoints.
func (s *Server) printEndpoints() {
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health                 - Health check")
	fmt.Println("  GET  /ready                  - Readiness check")
	fmt.Println("  GET  /api/openapi.yaml       - OpenAPI specification")
	if s.cfg.HasService("api") {
		fmt.Println("  POST /api/v1/keys/generate   - Generate a key pair")
		fmt.Println("  POST /api/v1/keys/info       - Describe a key")
		fmt.Println("  POST /api/v1/encrypt         - Encrypt a message")
		fmt.Println("  POST /api/v1/decrypt         - Decrypt a message")
		fmt.Println("  GET  /api/v1/profiles        - List profiles")
	}
}
