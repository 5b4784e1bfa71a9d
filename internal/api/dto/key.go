package dto

// KeyGenerateRequest represents a key generation request.
//
// Either Profile or Algorithm with explicit parameters must be set. A
// profile takes precedence.
type KeyGenerateRequest struct {
	// Profile is a builtin profile name (e.g., "cca2/fujisaki").
	Profile string `json:"profile,omitempty"`

	// Algorithm is the algorithm identifier.
	Algorithm string `json:"algorithm,omitempty"`

	// M is the field extension degree.
	M int `json:"m,omitempty"`

	// T is the error-correcting capability.
	T int `json:"t,omitempty"`

	// FieldPoly is the field polynomial in hex; empty selects the default.
	FieldPoly string `json:"field_poly,omitempty"`

	// Digest names the hash used by the CCA2 conversions.
	Digest string `json:"digest,omitempty"`
}

// KeyGenerateResponse represents the result of key generation.
type KeyGenerateResponse struct {
	// PublicKey is the PEM-armored public key.
	PublicKey string `json:"public_key"`

	// PrivateKey is the PEM-armored private key.
	PrivateKey string `json:"private_key"`

	// Algorithm describes the algorithm.
	Algorithm AlgorithmInfo `json:"algorithm"`

	// Params describes the code parameters.
	Params ParamsInfo `json:"params"`

	// Fingerprint is the public key fingerprint.
	Fingerprint string `json:"fingerprint"`
}

// KeyInfoRequest represents a key info request.
type KeyInfoRequest struct {
	// Key is the PEM-armored public or private key.
	Key string `json:"key"`
}

// KeyInfoResponse represents key information.
type KeyInfoResponse struct {
	// Type is "public" or "private".
	Type string `json:"type"`

	// Algorithm describes the algorithm.
	Algorithm AlgorithmInfo `json:"algorithm"`

	// Params describes the code parameters.
	Params ParamsInfo `json:"params"`

	// MaxPlaintextSize is the largest raw plaintext in bytes; absent for
	// the CCA2 conversions, which accept any length.
	MaxPlaintextSize *int `json:"max_plaintext_size,omitempty"`

	// Fingerprint is the public key fingerprint.
	Fingerprint string `json:"fingerprint"`
}
