// Package server provides HTTP server configuration and lifecycle management.
package server

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// DefaultPort is used when neither a flag nor MCELIECE_PORT sets one.
const DefaultPort = 8443

// Config holds the server configuration.
type Config struct {
	// Port is the HTTP port.
	Port int

	// Host is the address to bind to (default: "").
	Host string

	// Services specifies which services to enable.
	// Valid values: "api", "all"
	Services []string

	// TLS configuration (optional)
	TLSCert string
	TLSKey  string

	// Random overrides crypto/rand for key generation and encryption.
	Random io.Reader

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults. Key generation
// for m=12 takes a while, hence the long write timeout.
func DefaultConfig() *Config {
	return &Config{
		Port:            DefaultPort,
		Host:            "",
		Services:        []string{"all"},
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ApplyEnv overrides the port from MCELIECE_PORT when it is set.
func (c *Config) ApplyEnv() error {
	v := os.Getenv("MCELIECE_PORT")
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid MCELIECE_PORT %q", v)
	}
	c.Port = port
	return nil
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

// Address returns the full listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
