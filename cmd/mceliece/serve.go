package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/api/middleware"
	"github.com/remiblancher/mceliece/internal/api/server"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveTLSCert string
	serveTLSKey  string
	serveLogJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the McEliece REST API",
	Long: `Start the McEliece REST API.

Endpoints:
  /health, /ready
  /api/v1/keys/generate, /api/v1/keys/info
  /api/v1/encrypt, /api/v1/decrypt
  /api/v1/profiles

Environment variables:
  MCELIECE_PORT       Port to listen on (default 8443)
  MCELIECE_AUDIT_LOG  Audit log file

Examples:
  mceliece serve --port 8080
  mceliece serve --port 8443 --tls-cert server.crt --tls-key server.key`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: 8443)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Write request logs as JSON")
}

// serveConfig merges defaults, environment and flags, in that order.
func serveConfig() (*server.Config, error) {
	cfg := server.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.Host = serveHost
	cfg.TLSCert = serveTLSCert
	cfg.TLSKey = serveTLSKey
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if serveLogJSON {
		h = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	middleware.SetLogger(logger)

	return server.New(cfg, version).Start()
}
