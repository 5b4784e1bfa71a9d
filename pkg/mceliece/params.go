package mceliece

import (
	"fmt"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/gf2m"
)

const (
	// DefaultM and DefaultT give n = 2048, k = 1498.
	DefaultM = 11
	DefaultT = 50

	// MaxKeyGenDegree bounds m for key generation, where the full support
	// of 2^m columns is materialized.
	MaxKeyGenDegree = 16
)

// Parameters select a Goppa code and, for the CCA2 conversions, a digest.
type Parameters struct {
	// M is the extension degree of GF(2^m). The code length is n = 2^M.
	M int
	// T is the error-correcting capability (degree of the Goppa polynomial).
	T int
	// FieldPoly defines GF(2^m). Zero selects the smallest irreducible
	// polynomial of degree M.
	FieldPoly uint64
	// Digest is used by the CCA2 conversions. Empty selects SHA-256.
	Digest digest.Name
}

// DefaultParameters returns m = 11, t = 50 with SHA-256.
func DefaultParameters() Parameters {
	return Parameters{
		M:         DefaultM,
		T:         DefaultT,
		FieldPoly: gf2m.IrreducibleBinaryPolynomial(DefaultM),
		Digest:    digest.Default,
	}
}

// NewParameters returns validated parameters with the default field
// polynomial and digest.
func NewParameters(m, t int) (Parameters, error) {
	return NewParametersWithPoly(m, t, gf2m.IrreducibleBinaryPolynomial(m))
}

// NewParametersWithPoly returns validated parameters with the given field
// polynomial.
func NewParametersWithPoly(m, t int, poly uint64) (Parameters, error) {
	p := Parameters{M: m, T: t, FieldPoly: poly, Digest: digest.Default}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// ParametersForKeySize picks the smallest m with 2^m >= keySize and
// t = (n/2)/m.
func ParametersForKeySize(keySize int) (Parameters, error) {
	if keySize < 1 {
		return Parameters{}, fmt.Errorf("%w: key size must be positive", ErrInvalidParameters)
	}
	m, n := 0, 1
	for n < keySize {
		n <<= 1
		m++
	}
	if m == 0 {
		return Parameters{}, fmt.Errorf("%w: key size %d is too small", ErrInvalidParameters, keySize)
	}
	return NewParameters(m, (n>>1)/m)
}

// N returns the code length 2^M.
func (p Parameters) N() int { return 1 << uint(p.M) }

// K returns the code dimension n - m*t.
func (p Parameters) K() int { return p.N() - p.M*p.T }

// Poly returns the field polynomial, resolving zero to the default.
func (p Parameters) Poly() uint64 {
	if p.FieldPoly == 0 {
		return gf2m.IrreducibleBinaryPolynomial(p.M)
	}
	return p.FieldPoly
}

// DigestName returns the digest, resolving empty to SHA-256.
func (p Parameters) DigestName() digest.Name {
	if p.Digest == "" {
		return digest.Default
	}
	return p.Digest
}

// Validate checks that the parameters describe a usable code.
func (p Parameters) Validate() error {
	if p.M < 1 || p.M > gf2m.MaxDegree {
		return fmt.Errorf("%w: m=%d must be in [1, %d]", ErrInvalidParameters, p.M, gf2m.MaxDegree)
	}
	if p.T < 2 {
		return fmt.Errorf("%w: t=%d must be at least 2", ErrInvalidParameters, p.T)
	}
	if p.K() <= 0 {
		return fmt.Errorf("%w: m*t=%d leaves no message bits in n=%d", ErrInvalidParameters, p.M*p.T, p.N())
	}
	poly := p.Poly()
	if gf2m.BinaryDegree(poly) != p.M || !gf2m.IsIrreducibleBinary(poly) {
		return fmt.Errorf("%w: field polynomial %#x is not irreducible of degree %d", ErrInvalidParameters, poly, p.M)
	}
	if !p.DigestName().IsValid() {
		return fmt.Errorf("%w: unknown digest %q", ErrInvalidParameters, p.Digest)
	}
	return nil
}

// validateForKeyGen additionally bounds m so the check matrix fits in
// memory.
func (p Parameters) validateForKeyGen() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.M > MaxKeyGenDegree {
		return fmt.Errorf("%w: key generation supports m <= %d, got %d", ErrInvalidParameters, MaxKeyGenDegree, p.M)
	}
	return nil
}

// Field builds GF(2^m).
func (p Parameters) Field() (*gf2m.Field, error) {
	return gf2m.NewFieldWithPoly(p.M, p.Poly())
}

// String renders the parameters as "m=11 t=50 n=2048 k=1498".
func (p Parameters) String() string {
	return fmt.Sprintf("m=%d t=%d n=%d k=%d", p.M, p.T, p.N(), p.K())
}
