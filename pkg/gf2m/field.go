// Package gf2m implements arithmetic over binary extension fields GF(2^m),
// dense polynomials with coefficients in GF(2^m), and the quotient ring
// GF(2^m)[x]/(g) used by Goppa code decoding.
//
// Field elements are plain ints in [0, 2^m): bit i of an element is the
// coefficient of x^i in its polynomial-basis representation.
package gf2m

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/remiblancher/mceliece/internal/randutil"
)

const (
	// MaxDegree is the largest supported extension degree.
	MaxDegree = 32

	// maxTableDegree bounds the fields that get exp/log lookup tables.
	// Larger fields multiply by shift-and-reduce.
	maxTableDegree = 16
)

var (
	// ErrInvalidDegree is returned when m is outside [1, 32].
	ErrInvalidDegree = errors.New("gf2m: field degree must be in [1, 32]")

	// ErrReduciblePoly is returned when the field polynomial is reducible
	// or does not have the requested degree.
	ErrReduciblePoly = errors.New("gf2m: field polynomial is not irreducible of the requested degree")
)

// Field is GF(2^m) defined by an irreducible binary polynomial.
// A Field is immutable after construction and safe for concurrent use.
type Field struct {
	degree int
	poly   uint64

	// exp[i] = g^i for a generator g, duplicated so that exp[la+lb] needs
	// no reduction. Both tables are nil for degree > maxTableDegree.
	exp []uint32
	log []uint32
}

// NewField returns GF(2^m) defined by the smallest irreducible polynomial
// of degree m.
func NewField(m int) (*Field, error) {
	if m < 1 || m > MaxDegree {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, m)
	}
	return newField(m, IrreducibleBinaryPolynomial(m)), nil
}

// NewFieldWithPoly returns GF(2^m) defined by poly.
func NewFieldWithPoly(m int, poly uint64) (*Field, error) {
	if m < 1 || m > MaxDegree {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, m)
	}
	if BinaryDegree(poly) != m {
		return nil, fmt.Errorf("%w: %#x has degree %d, want %d", ErrReduciblePoly, poly, BinaryDegree(poly), m)
	}
	if !IsIrreducibleBinary(poly) {
		return nil, fmt.Errorf("%w: %#x", ErrReduciblePoly, poly)
	}
	return newField(m, poly), nil
}

func newField(m int, poly uint64) *Field {
	f := &Field{degree: m, poly: poly}
	if m <= maxTableDegree {
		f.buildTables()
	}
	return f
}

// buildTables searches a generator of the multiplicative group and fills
// the exp/log tables from its powers.
func (f *Field) buildTables() {
	order := f.Size() - 1
	exp := make([]uint32, 2*order)
	log := make([]uint32, f.Size())

	for g := 1; g <= order; g++ {
		x := uint64(1)
		isGenerator := true
		for i := 0; i < order; i++ {
			if i > 0 && x == 1 {
				isGenerator = false
				break
			}
			exp[i] = uint32(x)
			x = binaryModMultiply(x, uint64(g), f.poly)
		}
		if !isGenerator {
			continue
		}
		for i := 0; i < order; i++ {
			exp[i+order] = exp[i]
			log[exp[i]] = uint32(i)
		}
		f.exp = exp
		f.log = log
		return
	}
	// Unreachable for an irreducible polynomial: the multiplicative group
	// of a finite field is cyclic.
	panic("gf2m: no generator found for field polynomial")
}

// Degree returns m.
func (f *Field) Degree() int { return f.degree }

// Poly returns the field polynomial as a bit mask.
func (f *Field) Poly() uint64 { return f.poly }

// Size returns the number of field elements, 2^m.
func (f *Field) Size() int { return 1 << uint(f.degree) }

// IsElement reports whether a is a valid element of f.
func (f *Field) IsElement(a int) bool {
	return a >= 0 && a < f.Size()
}

// Add returns a + b.
func (f *Field) Add(a, b int) int { return a ^ b }

// Mult returns a * b.
func (f *Field) Mult(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if f.exp != nil {
		return int(f.exp[f.log[a]+f.log[b]])
	}
	return int(binaryModMultiply(uint64(a), uint64(b), f.poly))
}

// Exp returns a^k. Negative exponents invert a first.
func (f *Field) Exp(a, k int) int {
	if k == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	if a == 1 {
		return 1
	}
	if k < 0 {
		a = f.Inverse(a)
		k = -k
	}
	if f.exp != nil {
		order := f.Size() - 1
		return int(f.exp[(uint64(f.log[a])*uint64(k))%uint64(order)])
	}
	result := 1
	for k != 0 {
		if k&1 != 0 {
			result = f.Mult(result, a)
		}
		a = f.Mult(a, a)
		k >>= 1
	}
	return result
}

// Inverse returns a^-1. Like integer division by zero, Inverse panics
// when a is 0.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("gf2m: inverse of zero")
	}
	if f.exp != nil {
		order := f.Size() - 1
		return int(f.exp[order-int(f.log[a])])
	}
	return f.Exp(a, f.Size()-2)
}

// Sqrt returns the unique b with b^2 = a, i.e. a^(2^(m-1)).
func (f *Field) Sqrt(a int) int {
	for i := 1; i < f.degree; i++ {
		a = f.Mult(a, a)
	}
	return a
}

// RandomElement returns a uniformly random element.
func (f *Field) RandomElement(r io.Reader) (int, error) {
	return randutil.Intn(randutil.Reader(r), f.Size())
}

// RandomNonZeroElement returns a uniformly random nonzero element.
func (f *Field) RandomNonZeroElement(r io.Reader) (int, error) {
	e, err := randutil.Intn(randutil.Reader(r), f.Size()-1)
	if err != nil {
		return 0, err
	}
	return e + 1, nil
}

// Equal reports whether f and other define the same field.
func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.degree == other.degree && f.poly == other.poly
}

// String renders the field as "GF(2^m) mod <poly>".
func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d) mod %s", f.degree, binaryString(f.poly))
}

// ElementString renders a as a polynomial in x.
func (f *Field) ElementString(a int) string {
	return binaryString(uint64(a))
}

func binaryString(p uint64) string {
	if p == 0 {
		return "0"
	}
	var terms []string
	for i := BinaryDegree(p); i >= 0; i-- {
		if p&(1<<uint(i)) == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", i))
		}
	}
	return strings.Join(terms, " + ")
}
