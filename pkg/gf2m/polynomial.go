package gf2m

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/remiblancher/mceliece/internal/randutil"
)

// maxIrreducibleAttempts caps the coefficient re-draws in
// NewRandomIrreduciblePolynomial. A random monic polynomial of degree t is
// irreducible with probability about 1/t, so the cap is never reached in
// practice.
const maxIrreducibleAttempts = 1 << 14

var (
	// ErrNotInvertible is returned when a polynomial has no inverse modulo
	// the given modulus.
	ErrNotInvertible = errors.New("gf2m: polynomial is not invertible modulo g")

	// ErrIrreducibleSearchExhausted is returned when no irreducible
	// polynomial was found within the attempt cap.
	ErrIrreducibleSearchExhausted = errors.New("gf2m: irreducible polynomial search exhausted")

	// ErrInvalidEncoding is returned for malformed polynomial encodings.
	ErrInvalidEncoding = errors.New("gf2m: invalid polynomial encoding")

	// ErrFieldMismatch is returned when operands live in different fields.
	ErrFieldMismatch = errors.New("gf2m: polynomials are over different fields")
)

// Polynomial is a dense polynomial over a Field. Coefficient i is the
// coefficient of x^i; the highest stored coefficient is nonzero. The zero
// polynomial has degree -1. Polynomials are immutable.
type Polynomial struct {
	field  *Field
	coeffs []int
}

// NewPolynomial returns the polynomial with the given coefficients (lowest
// degree first). Coefficients are reduced to field elements by masking.
func NewPolynomial(f *Field, coeffs []int) *Polynomial {
	c := make([]int, len(coeffs))
	mask := f.Size() - 1
	for i, v := range coeffs {
		c[i] = v & mask
	}
	return &Polynomial{field: f, coeffs: trim(c)}
}

// NewMonomial returns x^degree.
func NewMonomial(f *Field, degree int) *Polynomial {
	c := make([]int, degree+1)
	c[degree] = 1
	return &Polynomial{field: f, coeffs: c}
}

// NewRandomIrreduciblePolynomial draws a random monic irreducible
// polynomial of the given degree with a nonzero constant term.
func NewRandomIrreduciblePolynomial(f *Field, degree int, r io.Reader) (*Polynomial, error) {
	if degree < 1 {
		return nil, fmt.Errorf("gf2m: invalid polynomial degree %d", degree)
	}
	r = randutil.Reader(r)

	c := make([]int, degree+1)
	c[degree] = 1
	var err error
	if c[0], err = f.RandomNonZeroElement(r); err != nil {
		return nil, err
	}
	for i := 1; i < degree; i++ {
		if c[i], err = f.RandomElement(r); err != nil {
			return nil, err
		}
	}

	for attempt := 0; attempt < maxIrreducibleAttempts; attempt++ {
		if isIrreducible(f, c) {
			return &Polynomial{field: f, coeffs: c}, nil
		}
		n, err := randutil.Intn(r, degree)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			c[0], err = f.RandomNonZeroElement(r)
		} else {
			c[n], err = f.RandomElement(r)
		}
		if err != nil {
			return nil, err
		}
	}
	return nil, ErrIrreducibleSearchExhausted
}

// PolynomialFromBytes decodes a polynomial written by Bytes.
func PolynomialFromBytes(f *Field, b []byte) (*Polynomial, error) {
	width := f.elementWidth()
	if len(b)%width != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidEncoding, len(b), width)
	}
	c := make([]int, len(b)/width)
	for i := range c {
		var v int
		for j := width - 1; j >= 0; j-- {
			v = v<<8 | int(b[i*width+j])
		}
		if !f.IsElement(v) {
			return nil, fmt.Errorf("%w: coefficient %d is not a field element", ErrInvalidEncoding, i)
		}
		c[i] = v
	}
	return &Polynomial{field: f, coeffs: trim(c)}, nil
}

// elementWidth is the number of bytes used per encoded coefficient.
func (f *Field) elementWidth() int {
	return (f.degree + 7) / 8
}

// Field returns the coefficient field.
func (p *Polynomial) Field() *Field { return p.field }

// Degree returns the degree, -1 for the zero polynomial.
func (p *Polynomial) Degree() int { return len(p.coeffs) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Polynomial) IsZero() bool { return len(p.coeffs) == 0 }

// Coefficient returns the coefficient of x^i.
func (p *Polynomial) Coefficient(i int) int {
	if i < 0 || i >= len(p.coeffs) {
		return 0
	}
	return p.coeffs[i]
}

// HeadCoefficient returns the leading coefficient, 0 for the zero polynomial.
func (p *Polynomial) HeadCoefficient() int {
	if len(p.coeffs) == 0 {
		return 0
	}
	return p.coeffs[len(p.coeffs)-1]
}

// Coefficients returns a copy of the coefficient slice.
func (p *Polynomial) Coefficients() []int {
	return append([]int(nil), p.coeffs...)
}

// Add returns p + q.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	return p.with(addCoeffs(p.coeffs, q.coeffs))
}

// AddMonomial returns p + x^k.
func (p *Polynomial) AddMonomial(k int) *Polynomial {
	m := make([]int, k+1)
	m[k] = 1
	return p.with(addCoeffs(p.coeffs, m))
}

// Multiply returns p * q (no modular reduction).
func (p *Polynomial) Multiply(q *Polynomial) *Polynomial {
	return p.with(p.field.multiply(p.coeffs, q.coeffs))
}

// MultiplyElement returns e * p.
func (p *Polynomial) MultiplyElement(e int) *Polynomial {
	return p.with(p.field.multElement(p.coeffs, e))
}

// ShiftLeft returns x^k * p.
func (p *Polynomial) ShiftLeft(k int) *Polynomial {
	return p.with(shift(p.coeffs, k))
}

// Div returns the quotient and remainder of p / q. It panics if q is zero.
func (p *Polynomial) Div(q *Polynomial) (quo, rem *Polynomial) {
	qc, rc := p.field.divmod(p.coeffs, q.coeffs)
	return p.with(qc), p.with(rc)
}

// Mod returns p mod g.
func (p *Polynomial) Mod(g *Polynomial) *Polynomial {
	return p.with(p.field.mod(p.coeffs, g.coeffs))
}

// ModMultiply returns p * q mod g.
func (p *Polynomial) ModMultiply(q, g *Polynomial) *Polynomial {
	return p.with(p.field.modMultiply(p.coeffs, q.coeffs, g.coeffs))
}

// ModInverse returns p^-1 mod g.
func (p *Polynomial) ModInverse(g *Polynomial) (*Polynomial, error) {
	c, err := p.field.modDiv([]int{1}, p.coeffs, g.coeffs)
	if err != nil {
		return nil, err
	}
	return p.with(c), nil
}

// ModSquareRootMatrix returns the square root of p modulo the polynomial
// whose square-root matrix is given (see Ring.SquareRootMatrix).
func (p *Polynomial) ModSquareRootMatrix(matrix []*Polynomial) *Polynomial {
	f := p.field
	n := len(matrix)
	res := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n && j < len(p.coeffs); j++ {
			if i >= len(matrix[j].coeffs) {
				continue
			}
			res[i] ^= f.Mult(matrix[j].coeffs[i], p.coeffs[j])
		}
	}
	for i := range res {
		res[i] = f.Sqrt(res[i])
	}
	return p.with(trim(res))
}

// ModPolynomialToFraction returns (a, b) with a = b*p mod g and
// deg(a) <= deg(g)/2, via the extended Euclidean algorithm stopped halfway.
func (p *Polynomial) ModPolynomialToFraction(g *Polynomial) (a, b *Polynomial) {
	f := p.field
	half := g.Degree() >> 1
	a0 := g.coeffs
	a1 := f.mod(p.coeffs, g.coeffs)
	b0 := []int(nil)
	b1 := []int{1}
	for len(a1)-1 > half {
		q, r := f.divmod(a0, a1)
		a0, a1 = a1, r
		b2 := addCoeffs(b0, f.modMultiply(q, b1, g.coeffs))
		b0, b1 = b1, b2
	}
	return p.with(a1), p.with(b1)
}

// Evaluate returns p(x).
func (p *Polynomial) Evaluate(x int) int {
	if len(p.coeffs) == 0 {
		return 0
	}
	f := p.field
	result := p.coeffs[len(p.coeffs)-1]
	for i := len(p.coeffs) - 2; i >= 0; i-- {
		result = f.Mult(result, x) ^ p.coeffs[i]
	}
	return result
}

// IsIrreducible reports whether p is irreducible over its field.
func (p *Polynomial) IsIrreducible() bool {
	return isIrreducible(p.field, p.coeffs)
}

// Equal reports whether p and q are the same polynomial over the same field.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p == nil || q == nil {
		return p == q
	}
	if !p.field.Equal(q.field) || len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i := range p.coeffs {
		if p.coeffs[i] != q.coeffs[i] {
			return false
		}
	}
	return true
}

// Bytes encodes the coefficients, lowest degree first, each as a
// little-endian integer of ceil(m/8) bytes.
func (p *Polynomial) Bytes() []byte {
	width := p.field.elementWidth()
	out := make([]byte, len(p.coeffs)*width)
	for i, c := range p.coeffs {
		for j := 0; j < width; j++ {
			out[i*width+j] = byte(c >> (8 * uint(j)))
		}
	}
	return out
}

// String renders p with hexadecimal coefficients, highest degree first.
func (p *Polynomial) String() string {
	if len(p.coeffs) == 0 {
		return "0"
	}
	var terms []string
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if c == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%#x", c))
		case 1:
			terms = append(terms, fmt.Sprintf("%#x*x", c))
		default:
			terms = append(terms, fmt.Sprintf("%#x*x^%d", c, i))
		}
	}
	return strings.Join(terms, " + ")
}

func (p *Polynomial) with(c []int) *Polynomial {
	return &Polynomial{field: p.field, coeffs: c}
}

// Coefficient-slice helpers. All results are trimmed.

func trim(a []int) []int {
	n := len(a)
	for n > 0 && a[n-1] == 0 {
		n--
	}
	return a[:n]
}

func addCoeffs(a, b []int) []int {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]int, len(a))
	copy(out, a)
	for i, v := range b {
		out[i] ^= v
	}
	return trim(out)
}

func shift(a []int, k int) []int {
	if len(a) == 0 {
		return nil
	}
	out := make([]int, len(a)+k)
	copy(out[k:], a)
	return out
}

func (f *Field) multElement(a []int, e int) []int {
	if e == 0 {
		return nil
	}
	out := make([]int, len(a))
	for i, v := range a {
		out[i] = f.Mult(v, e)
	}
	return trim(out)
}

func (f *Field) multiply(a, b []int) []int {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]int, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] ^= f.Mult(x, y)
		}
	}
	return trim(out)
}

// divmod divides a by b. It panics if b is zero.
func (f *Field) divmod(a, b []int) (q, r []int) {
	if len(b) == 0 {
		panic("gf2m: polynomial division by zero")
	}
	r = append([]int(nil), a...)
	db := len(b) - 1
	if len(r)-1 < db {
		return nil, trim(r)
	}
	q = make([]int, len(r)-db)
	inv := f.Inverse(b[db])
	for dr := len(r) - 1; dr >= db; dr = len(r) - 1 {
		coef := f.Mult(r[dr], inv)
		s := dr - db
		q[s] = coef
		for i, v := range b {
			r[s+i] ^= f.Mult(v, coef)
		}
		r = trim(r)
	}
	return trim(q), r
}

func (f *Field) mod(a, g []int) []int {
	_, r := f.divmod(a, g)
	return r
}

func (f *Field) modMultiply(a, b, g []int) []int {
	return f.mod(f.multiply(a, b), g)
}

func (f *Field) gcd(a, b []int) []int {
	for len(b) != 0 {
		a, b = b, f.mod(a, b)
	}
	return a
}

// modDiv returns a/b mod g using the extended Euclidean algorithm.
func (f *Field) modDiv(a, b, g []int) ([]int, error) {
	r0 := g
	r1 := f.mod(b, g)
	s0 := []int(nil)
	s1 := f.mod(a, g)
	for len(r1) != 0 {
		q, rem := f.divmod(r0, r1)
		r0, r1 = r1, rem
		s2 := addCoeffs(s0, f.modMultiply(q, s1, g))
		s0, s1 = s1, s2
	}
	if len(r0) != 1 {
		return nil, ErrNotInvertible
	}
	return f.multElement(s0, f.Inverse(r0[0])), nil
}

// isIrreducible runs the Ben-Or test: a is irreducible iff
// gcd(x^(q^i) - x, a) = 1 for i = 1..deg(a)/2, with q = 2^m.
func isIrreducible(f *Field, a []int) bool {
	a = trim(append([]int(nil), a...))
	if len(a) == 0 || a[0] == 0 {
		return false
	}
	d := (len(a) - 1) >> 1
	u := []int{0, 1}
	x := []int{0, 1}
	for i := 0; i < d; i++ {
		for j := 0; j < f.degree; j++ {
			u = f.modMultiply(u, u, a)
		}
		g := f.gcd(addCoeffs(u, x), a)
		if len(g)-1 != 0 {
			return false
		}
	}
	return true
}
