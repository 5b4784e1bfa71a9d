// Package dto provides Data Transfer Objects for the REST API.
package dto

import (
	"encoding/base64"
	"fmt"
)

// BinaryData represents binary data with encoding metadata.
type BinaryData struct {
	// Data is the encoded content.
	Data string `json:"data"`

	// Encoding specifies the encoding format: "base64" (default) or "text".
	Encoding string `json:"encoding,omitempty"`
}

// NewBase64 wraps b as base64 BinaryData.
func NewBase64(b []byte) BinaryData {
	return BinaryData{Data: base64.StdEncoding.EncodeToString(b), Encoding: "base64"}
}

// Decode decodes the binary data based on its encoding.
func (b *BinaryData) Decode() ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("binary data is nil")
	}
	switch b.Encoding {
	case "base64", "":
		return base64.StdEncoding.DecodeString(b.Data)
	case "text":
		return []byte(b.Data), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", b.Encoding)
	}
}

// APIError represents a standardized error response.
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Version is the server version.
	Version string `json:"version"`

	// Services lists enabled services and their status.
	Services map[string]string `json:"services,omitempty"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	// Ready indicates if the server is ready to accept requests.
	Ready bool `json:"ready"`

	// Checks lists individual readiness checks.
	Checks map[string]bool `json:"checks,omitempty"`
}

// AlgorithmInfo describes a McEliece variant.
type AlgorithmInfo struct {
	// ID is the algorithm identifier (e.g., "mceliece", "mceliece-fujisaki").
	ID string `json:"id"`

	// Type is "encryption" for the raw cipher or "cca2" for the conversions.
	Type string `json:"type"`

	// OID is the dotted object identifier.
	OID string `json:"oid,omitempty"`

	// Description provides additional information.
	Description string `json:"description,omitempty"`
}

// ParamsInfo describes a McEliece parameter set.
type ParamsInfo struct {
	M         int    `json:"m"`
	T         int    `json:"t"`
	N         int    `json:"n"`
	K         int    `json:"k"`
	FieldPoly string `json:"field_poly"` // "0x805"
	Digest    string `json:"digest,omitempty"`
}
