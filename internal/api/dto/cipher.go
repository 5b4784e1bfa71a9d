package dto

// EncryptRequest represents an encryption request.
type EncryptRequest struct {
	// PublicKey is the PEM-armored recipient public key.
	PublicKey string `json:"public_key"`

	// Plaintext is the message to encrypt.
	Plaintext BinaryData `json:"plaintext"`
}

// EncryptResponse represents the result of encryption.
type EncryptResponse struct {
	// Message is the PEM-armored ciphertext envelope.
	Message string `json:"message"`

	// Ciphertext is the bare ciphertext.
	Ciphertext BinaryData `json:"ciphertext"`

	// Algorithm is the algorithm identifier.
	Algorithm string `json:"algorithm"`
}

// DecryptRequest represents a decryption request.
//
// The ciphertext is given either as a PEM message envelope or as bare
// bytes, in which case the algorithm of the private key is assumed.
type DecryptRequest struct {
	// PrivateKey is the PEM-armored private key.
	PrivateKey string `json:"private_key"`

	// Message is the PEM-armored ciphertext envelope.
	Message string `json:"message,omitempty"`

	// Ciphertext is the bare ciphertext.
	Ciphertext *BinaryData `json:"ciphertext,omitempty"`
}

// DecryptResponse represents the result of decryption.
type DecryptResponse struct {
	// Plaintext is the recovered message.
	Plaintext BinaryData `json:"plaintext"`
}
