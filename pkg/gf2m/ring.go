package gf2m

import "errors"

// ErrSingularSquaringMatrix is returned when the squaring map of the ring
// is not invertible, which happens only for a non-squarefree modulus.
var ErrSingularSquaringMatrix = errors.New("gf2m: squaring matrix is not invertible")

// Ring is the quotient ring GF(2^m)[x]/(g). It holds the matrices of the
// squaring map and of its inverse, both as slices of t columns where
// column j is the image of x^j.
type Ring struct {
	field      *Field
	modulus    *Polynomial
	squaring   []*Polynomial
	squareRoot []*Polynomial
}

// NewRing precomputes the squaring and square-root matrices for the ring
// modulo g.
func NewRing(f *Field, g *Polynomial) (*Ring, error) {
	r := &Ring{field: f, modulus: g}
	r.computeSquaringMatrix()
	if err := r.computeSquareRootMatrix(); err != nil {
		return nil, err
	}
	return r, nil
}

// Modulus returns g.
func (r *Ring) Modulus() *Polynomial { return r.modulus }

// SquaringMatrix returns the columns x^(2j) mod g.
func (r *Ring) SquaringMatrix() []*Polynomial {
	return append([]*Polynomial(nil), r.squaring...)
}

// SquareRootMatrix returns the inverse of the squaring matrix. Use it with
// Polynomial.ModSquareRootMatrix.
func (r *Ring) SquareRootMatrix() []*Polynomial {
	return append([]*Polynomial(nil), r.squareRoot...)
}

func (r *Ring) computeSquaringMatrix() {
	t := r.modulus.Degree()
	r.squaring = make([]*Polynomial, t)
	for i := 0; i < t; i++ {
		m := NewMonomial(r.field, 2*i)
		if i >= t>>1 {
			m = m.Mod(r.modulus)
		}
		r.squaring[i] = m
	}
}

// computeSquareRootMatrix inverts the squaring matrix by Gauss-Jordan
// elimination on columns, applying every column operation to the identity
// as well.
func (r *Ring) computeSquareRootMatrix() error {
	f := r.field
	t := r.modulus.Degree()

	tmp := make([][]int, t)
	inv := make([][]int, t)
	for i := 0; i < t; i++ {
		tmp[i] = make([]int, t)
		copy(tmp[i], r.squaring[i].coeffs)
		inv[i] = make([]int, t)
		inv[i][i] = 1
	}

	for i := 0; i < t; i++ {
		if tmp[i][i] == 0 {
			found := false
			for j := i + 1; j < t; j++ {
				if tmp[j][i] != 0 {
					tmp[i], tmp[j] = tmp[j], tmp[i]
					inv[i], inv[j] = inv[j], inv[i]
					found = true
					break
				}
			}
			if !found {
				return ErrSingularSquaringMatrix
			}
		}

		c := f.Inverse(tmp[i][i])
		scaleColumn(f, tmp[i], c)
		scaleColumn(f, inv[i], c)

		for j := 0; j < t; j++ {
			if j == i {
				continue
			}
			if c := tmp[j][i]; c != 0 {
				addScaledColumn(f, tmp[j], tmp[i], c)
				addScaledColumn(f, inv[j], inv[i], c)
			}
		}
	}

	r.squareRoot = make([]*Polynomial, t)
	for i := range inv {
		r.squareRoot[i] = &Polynomial{field: f, coeffs: trim(inv[i])}
	}
	return nil
}

func scaleColumn(f *Field, col []int, c int) {
	for k := range col {
		col[k] = f.Mult(col[k], c)
	}
}

func addScaledColumn(f *Field, dst, src []int, c int) {
	for k := range dst {
		dst[k] ^= f.Mult(src[k], c)
	}
}
