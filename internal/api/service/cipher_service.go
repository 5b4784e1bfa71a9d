package service

import (
	"context"
	"fmt"
	"io"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/keyfile"
)

// CipherService provides encryption and decryption for the REST API.
type CipherService struct {
	random io.Reader
}

// NewCipherService creates a new CipherService. A nil random uses
// crypto/rand.
func NewCipherService(random io.Reader) *CipherService {
	return &CipherService{random: random}
}

// Encrypt encrypts the plaintext under the given public key.
func (s *CipherService) Encrypt(ctx context.Context, req *dto.EncryptRequest) (*dto.EncryptResponse, error) {
	if req.PublicKey == "" {
		return nil, invalidInput("public_key is required")
	}
	pub, err := keyfile.ParsePublicKey([]byte(req.PublicKey))
	if err != nil {
		return nil, err
	}
	msg, err := req.Plaintext.Decode()
	if err != nil {
		return nil, invalidInput("plaintext: %v", err)
	}

	alg := string(pub.Algorithm)
	fp := pub.Fingerprint()

	ct, err := pub.Encrypt(s.random, msg)
	if err != nil {
		_ = audit.LogEncrypt(alg, fp, len(msg), 0, false)
		return nil, err
	}
	if err := audit.LogEncrypt(alg, fp, len(msg), len(ct), true); err != nil {
		return nil, err
	}

	armored, err := keyfile.MarshalMessage(&keyfile.Message{Algorithm: pub.Algorithm, Ciphertext: ct})
	if err != nil {
		return nil, err
	}
	return &dto.EncryptResponse{
		Message:    string(armored),
		Ciphertext: dto.NewBase64(ct),
		Algorithm:  alg,
	}, nil
}

// Decrypt decrypts a message envelope or a bare ciphertext.
func (s *CipherService) Decrypt(ctx context.Context, req *dto.DecryptRequest) (*dto.DecryptResponse, error) {
	if req.PrivateKey == "" {
		return nil, invalidInput("private_key is required")
	}
	priv, err := keyfile.ParsePrivateKey([]byte(req.PrivateKey))
	if err != nil {
		return nil, err
	}

	var ct []byte
	switch {
	case req.Message != "":
		m, err := keyfile.ParseMessage([]byte(req.Message))
		if err != nil {
			return nil, err
		}
		if err := priv.CheckAlgorithm(m.Algorithm); err != nil {
			return nil, err
		}
		ct = m.Ciphertext
	case req.Ciphertext != nil:
		ct, err = req.Ciphertext.Decode()
		if err != nil {
			return nil, invalidInput("ciphertext: %v", err)
		}
	default:
		return nil, invalidInput("message or ciphertext is required")
	}

	pt, err := priv.Decrypt(ct)
	if auditErr := audit.LogDecrypt(string(priv.Algorithm), fingerprintOf(priv), len(ct), err == nil); auditErr != nil && err == nil {
		return nil, auditErr
	}
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return &dto.DecryptResponse{Plaintext: dto.NewBase64(pt)}, nil
}
