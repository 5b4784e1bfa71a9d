// Package service provides business logic for the REST API.
package service

import (
	"errors"
	"fmt"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// ErrInvalidInput is returned for requests that are well-formed JSON but
// semantically incomplete or contradictory.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func algorithmInfo(alg mceliece.AlgorithmID) dto.AlgorithmInfo {
	typ := "encryption"
	if alg.IsCCA2() {
		typ = "cca2"
	}
	return dto.AlgorithmInfo{
		ID:          string(alg),
		Type:        typ,
		OID:         alg.OID().String(),
		Description: alg.Description(),
	}
}

func paramsInfo(alg mceliece.AlgorithmID, p mceliece.Parameters) dto.ParamsInfo {
	info := dto.ParamsInfo{
		M:         p.M,
		T:         p.T,
		N:         p.N(),
		K:         p.K(),
		FieldPoly: fmt.Sprintf("%#x", p.Poly()),
	}
	if alg.IsCCA2() {
		info.Digest = string(p.DigestName())
	}
	return info
}

// fingerprintOf returns the public key fingerprint of k, or "" if the
// public key cannot be derived.
func fingerprintOf(k *keyfile.PrivateKey) string {
	pub, err := k.Public()
	if err != nil {
		return ""
	}
	return pub.Fingerprint()
}
