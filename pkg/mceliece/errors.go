package mceliece

import "errors"

var (
	// ErrDecryption is returned for every decryption failure. The cause is
	// deliberately not exposed.
	ErrDecryption = errors.New("mceliece: decryption failed")

	// ErrMessageTooLong is returned when a plaintext exceeds
	// MaxPlainTextSize.
	ErrMessageTooLong = errors.New("mceliece: message too long")

	// ErrInvalidCiphertextSize is returned by the raw cipher when the
	// ciphertext is not exactly ceil(n/8) bytes.
	ErrInvalidCiphertextSize = errors.New("mceliece: invalid ciphertext size")

	// ErrInvalidParameters is returned for unusable (m, t) combinations.
	ErrInvalidParameters = errors.New("mceliece: invalid parameters")

	// ErrInvalidKey is returned when a key encoding is malformed or
	// inconsistent.
	ErrInvalidKey = errors.New("mceliece: invalid key")

	// ErrKeyGenExhausted is returned when key generation did not find a
	// usable Goppa code within its attempt cap.
	ErrKeyGenExhausted = errors.New("mceliece: key generation attempts exhausted")
)

// debugHook receives the cause of each decryption failure. It is a no-op
// unless the module is built with the mceliecedebug tag.
var debugHook = func(op string, cause error) {}

// decryptionFailure records cause through debugHook and returns the opaque
// ErrDecryption.
func decryptionFailure(op string, cause error) error {
	debugHook(op, cause)
	return ErrDecryption
}
