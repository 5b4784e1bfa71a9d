// Package goppa implements binary irreducible Goppa codes of full length
// n = 2^m over GF(2^m): the canonical parity-check matrix, its reduction to
// systematic form and Patterson syndrome decoding.
package goppa

import (
	"errors"
	"fmt"
	"io"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/gf2m"
)

// ErrDecodingFailure is returned when a syndrome does not correspond to an
// error pattern of weight at most t.
var ErrDecodingFailure = errors.New("goppa: syndrome decoding failed")

// SystematicForm holds the reduction of a check matrix H under a column
// permutation Perm: First is the left square block of H*Perm and Second is
// R in First^-1 * H * Perm = [I | R].
type SystematicForm struct {
	First  *gf2.Matrix
	Second *gf2.Matrix
	Perm   *gf2.Permutation
}

// CanonicalCheckMatrix returns the mt x n binary check matrix of the Goppa
// code defined by g, with the support ordered as the field elements 0..n-1.
func CanonicalCheckMatrix(f *gf2m.Field, g *gf2m.Polynomial) *gf2.Matrix {
	m := f.Degree()
	n := f.Size()
	t := g.Degree()

	// yz[i][j] = j^i / g(j)
	yz := make([][]int, t)
	yz[0] = make([]int, n)
	for j := 0; j < n; j++ {
		yz[0][j] = f.Inverse(g.Evaluate(j))
	}
	for i := 1; i < t; i++ {
		yz[i] = make([]int, n)
		for j := 0; j < n; j++ {
			yz[i][j] = f.Mult(yz[i-1][j], j)
		}
	}

	h := gf2.NewMatrix(t*m, n)
	for i := 0; i < t; i++ {
		for j := 0; j < n; j++ {
			e := 0
			for k := 0; k <= i; k++ {
				e ^= f.Mult(yz[k][j], g.Coefficient(t+k-i))
			}
			for u := 0; u < m; u++ {
				if (e>>uint(u))&1 != 0 {
					h.SetBit((i+1)*m-u-1, j, 1)
				}
			}
		}
	}
	return h
}

// ComputeSystematicForm reduces h under a fresh random column permutation.
// It fails with gf2.ErrRankDeficient when h does not have full row rank.
func ComputeSystematicForm(h *gf2.Matrix, r io.Reader) (*SystematicForm, error) {
	p, err := gf2.NewRandomPermutation(h.Cols(), randutil.Reader(r))
	if err != nil {
		return nil, err
	}
	reduced, q, err := h.SystematicForm(p)
	if err != nil {
		return nil, fmt.Errorf("goppa: systematic form: %w", err)
	}
	return &SystematicForm{
		First:  h.PermuteColumns(q).LeftSubMatrix(),
		Second: reduced.RightSubMatrix(),
		Perm:   q,
	}, nil
}

// SyndromeToPolynomial reads an mt-bit syndrome as a polynomial of degree
// below t over f. The first m bits form the coefficient of x^(t-1), most
// significant bit first.
func SyndromeToPolynomial(s *gf2.Vector, f *gf2m.Field) (*gf2m.Polynomial, error) {
	m := f.Degree()
	if s.Len()%m != 0 {
		return nil, fmt.Errorf("goppa: syndrome length %d is not a multiple of %d", s.Len(), m)
	}
	t := s.Len() / m
	coeffs := make([]int, t)
	count := 0
	for i := t - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if s.Bit(count) != 0 {
				coeffs[i] ^= 1 << uint(j)
			}
			count++
		}
	}
	return gf2m.NewPolynomial(f, coeffs), nil
}

// SyndromeDecode recovers the error vector of length 2^m from a syndrome
// with Patterson's algorithm. qInv is the square-root matrix of the ring
// modulo g. A zero syndrome decodes to the zero vector.
func SyndromeDecode(s *gf2.Vector, f *gf2m.Field, g *gf2m.Polynomial, qInv []*gf2m.Polynomial) (*gf2.Vector, error) {
	n := f.Size()
	errs := gf2.NewVector(n)
	if s.IsZero() {
		return errs, nil
	}

	syndrome, err := SyndromeToPolynomial(s, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}
	inv, err := syndrome.ModInverse(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}

	tau := inv.AddMonomial(1).ModSquareRootMatrix(qInv)
	a, b := tau.ModPolynomialToFraction(g)
	sigma := a.Multiply(a).Add(b.Multiply(b).ShiftLeft(1))
	if sigma.IsZero() {
		return nil, ErrDecodingFailure
	}
	sigma = sigma.MultiplyElement(f.Inverse(sigma.HeadCoefficient()))
	if sigma.Degree() > g.Degree() {
		return nil, fmt.Errorf("%w: locator degree %d exceeds t=%d", ErrDecodingFailure, sigma.Degree(), g.Degree())
	}

	roots := 0
	for i := 0; i < n; i++ {
		if sigma.Evaluate(i) == 0 {
			errs.SetBit(i, 1)
			roots++
		}
	}
	if roots != sigma.Degree() {
		return nil, fmt.Errorf("%w: %d roots for a degree %d locator", ErrDecodingFailure, roots, sigma.Degree())
	}
	return errs, nil
}
