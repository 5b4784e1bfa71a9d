package mceliece

import (
	"crypto/sha256"
	"fmt"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/gf2m"
	"github.com/remiblancher/mceliece/pkg/goppa"
)

// PublicKey is a key of the raw scheme. G = S * G' * P2 is the scrambled
// k x n generator matrix.
type PublicKey struct {
	N int
	T int
	G *gf2.Matrix
}

// PrivateKey is a key of the raw scheme.
type PrivateKey struct {
	N     int
	K     int
	Field *gf2m.Field
	Goppa *gf2m.Polynomial
	P1    *gf2.Permutation
	P2    *gf2.Permutation
	SInv  *gf2.Matrix

	// Derived from Field and Goppa; recomputed on decoding.
	H    *gf2.Matrix
	QInv []*gf2m.Polynomial
}

// CCA2PublicKey is a key of the CCA2 conversions. G is the short k x (n-k)
// generator matrix; the full generator is [G | I].
type CCA2PublicKey struct {
	N      int
	T      int
	G      *gf2.Matrix
	Digest digest.Name
}

// CCA2PrivateKey is a key of the CCA2 conversions.
type CCA2PrivateKey struct {
	N      int
	K      int
	Field  *gf2m.Field
	Goppa  *gf2m.Polynomial
	P      *gf2.Permutation
	Digest digest.Name

	// Derived from Field and Goppa; recomputed on decoding.
	H    *gf2.Matrix
	QInv []*gf2m.Polynomial
}

func ciphertextBytes(n int) int { return (n + 7) / 8 }

// K returns the code dimension.
func (k *PublicKey) K() int { return k.G.Rows() }

// MaxPlainTextSize returns the largest message the raw cipher accepts.
func (k *PublicKey) MaxPlainTextSize() int { return (k.K() - 1) / 8 }

// CiphertextSize returns the raw ciphertext length, ceil(n/8).
func (k *PublicKey) CiphertextSize() int { return ciphertextBytes(k.N) }

// Fingerprint returns the SHA-256 digest of the key encoding.
func (k *PublicKey) Fingerprint() []byte {
	sum := sha256.Sum256(k.MarshalBinary())
	return sum[:]
}

// Equal reports whether k and other are the same key.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.N == other.N && k.T == other.T && k.G.Equal(other.G)
}

// T returns the error-correcting capability.
func (k *PrivateKey) T() int { return k.Goppa.Degree() }

// MaxPlainTextSize returns the largest message the raw cipher accepts.
func (k *PrivateKey) MaxPlainTextSize() int { return (k.K - 1) / 8 }

// Public recomputes the public key from the private components.
func (k *PrivateKey) Public() (*PublicKey, error) {
	gPrime, err := generatorFromCheckMatrix(k.H, k.P1)
	if err != nil {
		return nil, err
	}
	s, err := k.SInv.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: S^-1 is singular", ErrInvalidKey)
	}
	g := s.Multiply(gPrime.ExtendLeftCompactForm()).PermuteColumns(k.P2)
	return &PublicKey{N: k.N, T: k.T(), G: g}, nil
}

// Equal reports whether k and other are the same key.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.N == other.N && k.K == other.K &&
		k.Field.Equal(other.Field) && k.Goppa.Equal(other.Goppa) &&
		k.P1.Equal(other.P1) && k.P2.Equal(other.P2) && k.SInv.Equal(other.SInv)
}

// K returns the code dimension.
func (k *CCA2PublicKey) K() int { return k.G.Rows() }

// Fingerprint returns the SHA-256 digest of the key encoding.
func (k *CCA2PublicKey) Fingerprint() []byte {
	sum := sha256.Sum256(k.MarshalBinary())
	return sum[:]
}

// Equal reports whether k and other are the same key.
func (k *CCA2PublicKey) Equal(other *CCA2PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.N == other.N && k.T == other.T && k.Digest == other.Digest && k.G.Equal(other.G)
}

// T returns the error-correcting capability.
func (k *CCA2PrivateKey) T() int { return k.Goppa.Degree() }

// Public recomputes the public key from the private components.
func (k *CCA2PrivateKey) Public() (*CCA2PublicKey, error) {
	gPrime, err := generatorFromCheckMatrix(k.H, k.P)
	if err != nil {
		return nil, err
	}
	return &CCA2PublicKey{N: k.N, T: k.T(), G: gPrime, Digest: k.Digest}, nil
}

// Equal reports whether k and other are the same key.
func (k *CCA2PrivateKey) Equal(other *CCA2PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.N == other.N && k.K == other.K && k.Digest == other.Digest &&
		k.Field.Equal(other.Field) && k.Goppa.Equal(other.Goppa) && k.P.Equal(other.P)
}

// generatorFromCheckMatrix returns the short generator R^T for the
// systematic form First^-1 * H * P = [I | R].
func generatorFromCheckMatrix(h *gf2.Matrix, p *gf2.Permutation) (*gf2.Matrix, error) {
	hp := h.PermuteColumns(p)
	firstInv, err := hp.LeftSubMatrix().Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: permuted check matrix is not systematic", ErrInvalidKey)
	}
	return firstInv.Multiply(hp).RightSubMatrix().Transpose(), nil
}

// decodingData rebuilds the check matrix and square-root matrix of the
// Goppa code.
func decodingData(f *gf2m.Field, g *gf2m.Polynomial) (*gf2.Matrix, []*gf2m.Polynomial, error) {
	ring, err := gf2m.NewRing(f, g)
	if err != nil {
		return nil, nil, err
	}
	return goppa.CanonicalCheckMatrix(f, g), ring.SquareRootMatrix(), nil
}
