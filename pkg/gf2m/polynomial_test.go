package gf2m

import (
	"errors"
	"testing"

	"github.com/remiblancher/mceliece/internal/randutil"
)

func mustField(t *testing.T, m int) *Field {
	t.Helper()
	f, err := NewField(m)
	if err != nil {
		t.Fatalf("NewField(%d) failed: %v", m, err)
	}
	return f
}

func randomPolynomial(t *testing.T, f *Field, deg int, seed string) *Polynomial {
	t.Helper()
	rnd := randutil.NewDeterministicReader([]byte(seed))
	c := make([]int, deg+1)
	for i := range c {
		e, err := f.RandomElement(rnd)
		if err != nil {
			t.Fatalf("RandomElement failed: %v", err)
		}
		c[i] = e
	}
	c[deg] = 1
	return NewPolynomial(f, c)
}

// =============================================================================
// [Unit] Polynomial Basics
// =============================================================================

func TestU_Polynomial_Normalization(t *testing.T) {
	f := mustField(t, 4)
	tests := []struct {
		name   string
		coeffs []int
		degree int
	}{
		{"[Unit] Normalization: empty", nil, -1},
		{"[Unit] Normalization: all zero", []int{0, 0, 0}, -1},
		{"[Unit] Normalization: trailing zeros", []int{1, 2, 0, 0}, 1},
		{"[Unit] Normalization: constant", []int{5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolynomial(f, tt.coeffs)
			if p.Degree() != tt.degree {
				t.Errorf("Degree() = %d, want %d", p.Degree(), tt.degree)
			}
		})
	}
}

func TestU_Polynomial_DivisionIdentity(t *testing.T) {
	f := mustField(t, 6)
	a := randomPolynomial(t, f, 17, "div a")
	b := randomPolynomial(t, f, 5, "div b")

	q, r := a.Div(b)
	if r.Degree() >= b.Degree() {
		t.Fatalf("remainder degree %d not below divisor degree %d", r.Degree(), b.Degree())
	}
	if got := q.Multiply(b).Add(r); !got.Equal(a) {
		t.Errorf("q*b + r = %s, want %s", got, a)
	}
	if !a.Mod(b).Equal(r) {
		t.Error("Mod should match the Div remainder")
	}
}

func TestU_Polynomial_Arithmetic(t *testing.T) {
	f := mustField(t, 5)
	p := NewPolynomial(f, []int{1, 2, 3})

	if got := p.Add(p); !got.IsZero() {
		t.Errorf("p + p = %s, want 0", got)
	}
	if got, want := p.ShiftLeft(2), p.Multiply(NewMonomial(f, 2)); !got.Equal(want) {
		t.Errorf("ShiftLeft(2) = %s, want %s", got, want)
	}
	if got := p.AddMonomial(1).Coefficient(1); got != 3 {
		t.Errorf("AddMonomial(1) coefficient = %d, want 3", got)
	}
	if got := p.MultiplyElement(0); !got.IsZero() {
		t.Errorf("MultiplyElement(0) = %s, want 0", got)
	}
	if got := p.HeadCoefficient(); got != 3 {
		t.Errorf("HeadCoefficient() = %d, want 3", got)
	}
	// p(1) = 1 ^ 2 ^ 3 = 0
	if got := p.Evaluate(1); got != 0 {
		t.Errorf("Evaluate(1) = %d, want 0", got)
	}
	if got := p.Evaluate(0); got != 1 {
		t.Errorf("Evaluate(0) = %d, want 1", got)
	}
}

func TestU_Polynomial_ModInverse(t *testing.T) {
	f := mustField(t, 8)
	g, err := NewRandomIrreduciblePolynomial(f, 9, randutil.NewDeterministicReader([]byte("modinv g")))
	if err != nil {
		t.Fatalf("NewRandomIrreduciblePolynomial failed: %v", err)
	}
	one := NewPolynomial(f, []int{1})

	for i := 0; i < 10; i++ {
		p := randomPolynomial(t, f, 7, "modinv p"+string(rune('a'+i)))
		inv, err := p.ModInverse(g)
		if err != nil {
			t.Fatalf("ModInverse failed: %v", err)
		}
		if got := p.ModMultiply(inv, g); !got.Equal(one) {
			t.Errorf("p * p^-1 mod g = %s, want 1", got)
		}
	}

	// x^2 has no inverse modulo x^3.
	if _, err := NewMonomial(f, 2).ModInverse(NewMonomial(f, 3)); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("ModInverse error = %v, want ErrNotInvertible", err)
	}
}

func TestU_Polynomial_ModPolynomialToFraction(t *testing.T) {
	f := mustField(t, 7)
	g, err := NewRandomIrreduciblePolynomial(f, 10, randutil.NewDeterministicReader([]byte("fraction g")))
	if err != nil {
		t.Fatalf("NewRandomIrreduciblePolynomial failed: %v", err)
	}
	p := randomPolynomial(t, f, 9, "fraction p")

	a, b := p.ModPolynomialToFraction(g)
	if a.Degree() > g.Degree()/2 {
		t.Errorf("deg(a) = %d, want <= %d", a.Degree(), g.Degree()/2)
	}
	if got := b.ModMultiply(p, g); !got.Equal(a) {
		t.Errorf("b*p mod g = %s, want a = %s", got, a)
	}
}

// =============================================================================
// [Unit] Irreducibility
// =============================================================================

func TestU_Polynomial_RandomIrreducible(t *testing.T) {
	f := mustField(t, 6)
	rnd := randutil.NewDeterministicReader([]byte("irreducible search"))
	for i := 0; i < 5; i++ {
		g, err := NewRandomIrreduciblePolynomial(f, 8, rnd)
		if err != nil {
			t.Fatalf("NewRandomIrreduciblePolynomial failed: %v", err)
		}
		if g.Degree() != 8 || g.HeadCoefficient() != 1 {
			t.Errorf("expected monic degree 8, got %s", g)
		}
		if g.Coefficient(0) == 0 {
			t.Errorf("constant term must be nonzero: %s", g)
		}
		if !g.IsIrreducible() {
			t.Errorf("result is reducible: %s", g)
		}
		if g.Multiply(g).IsIrreducible() {
			t.Errorf("g^2 reported irreducible")
		}
	}
}

func TestU_Polynomial_IsIrreducible_Reducible(t *testing.T) {
	f := mustField(t, 4)
	a := NewPolynomial(f, []int{3, 1})
	b := NewPolynomial(f, []int{7, 2, 1})
	if a.Multiply(b).IsIrreducible() {
		t.Error("product of two polynomials reported irreducible")
	}
	if NewMonomial(f, 3).IsIrreducible() {
		t.Error("x^3 reported irreducible")
	}
	if !a.IsIrreducible() {
		t.Error("linear polynomial with nonzero constant should be irreducible")
	}
}

// =============================================================================
// [Unit] Encoding
// =============================================================================

func TestU_Polynomial_Bytes(t *testing.T) {
	f := mustField(t, 11)
	p := randomPolynomial(t, f, 12, "encoding")
	b := p.Bytes()
	if len(b) != 13*2 {
		t.Fatalf("len(Bytes()) = %d, want 26", len(b))
	}
	got, err := PolynomialFromBytes(f, b)
	if err != nil {
		t.Fatalf("PolynomialFromBytes failed: %v", err)
	}
	if !got.Equal(p) {
		t.Errorf("decoded %s, want %s", got, p)
	}

	if _, err := PolynomialFromBytes(f, b[:3]); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("odd length error = %v, want ErrInvalidEncoding", err)
	}
	if _, err := PolynomialFromBytes(f, []byte{0xff, 0xff}); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("out-of-field error = %v, want ErrInvalidEncoding", err)
	}
}

func TestU_Polynomial_String(t *testing.T) {
	f := mustField(t, 4)
	if got, want := NewPolynomial(f, []int{1, 0, 0xa}).String(), "0xa*x^2 + 0x1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := NewPolynomial(f, nil).String(); got != "0" {
		t.Errorf("String() of zero = %q", got)
	}
}
