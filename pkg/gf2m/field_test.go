package gf2m

import (
	"errors"
	"testing"

	"github.com/remiblancher/mceliece/internal/randutil"
)

// =============================================================================
// [Unit] Binary Polynomial Tests
// =============================================================================

func TestU_IrreducibleBinaryPolynomial(t *testing.T) {
	tests := []struct {
		name string
		deg  int
		want uint64
	}{
		{"[Unit] Irreducible: degree 1", 1, 0x3},
		{"[Unit] Irreducible: degree 2", 2, 0x7},
		{"[Unit] Irreducible: degree 3", 3, 0xb},
		{"[Unit] Irreducible: degree 4", 4, 0x13},
		{"[Unit] Irreducible: degree 8", 8, 0x11b},
		{"[Unit] Irreducible: degree 11", 11, 0x805},
		{"[Unit] Irreducible: degree 0", 0, 0},
		{"[Unit] Irreducible: degree 33", 33, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IrreducibleBinaryPolynomial(tt.deg); got != tt.want {
				t.Errorf("IrreducibleBinaryPolynomial(%d) = %#x, want %#x", tt.deg, got, tt.want)
			}
		})
	}
}

func TestU_IsIrreducibleBinary(t *testing.T) {
	tests := []struct {
		name string
		poly uint64
		want bool
	}{
		{"[Unit] IsIrreducibleBinary: x^2+x+1", 0x7, true},
		{"[Unit] IsIrreducibleBinary: x^2+1", 0x5, false},
		{"[Unit] IsIrreducibleBinary: x^4+x^3+1", 0x19, true},
		{"[Unit] IsIrreducibleBinary: (x^2+x+1)^2", 0x15, false},
		{"[Unit] IsIrreducibleBinary: x^11+x+1", 0x803, false},
		{"[Unit] IsIrreducibleBinary: zero", 0, false},
		{"[Unit] IsIrreducibleBinary: constant", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIrreducibleBinary(tt.poly); got != tt.want {
				t.Errorf("IsIrreducibleBinary(%#x) = %v, want %v", tt.poly, got, tt.want)
			}
		})
	}
}

// =============================================================================
// [Unit] Field Construction Tests
// =============================================================================

func TestU_NewField_Validation(t *testing.T) {
	if _, err := NewField(0); !errors.Is(err, ErrInvalidDegree) {
		t.Errorf("NewField(0) error = %v, want ErrInvalidDegree", err)
	}
	if _, err := NewField(33); !errors.Is(err, ErrInvalidDegree) {
		t.Errorf("NewField(33) error = %v, want ErrInvalidDegree", err)
	}
	if _, err := NewFieldWithPoly(4, 0x15); !errors.Is(err, ErrReduciblePoly) {
		t.Errorf("NewFieldWithPoly(4, 0x15) error = %v, want ErrReduciblePoly", err)
	}
	if _, err := NewFieldWithPoly(4, 0xb); !errors.Is(err, ErrReduciblePoly) {
		t.Errorf("NewFieldWithPoly(4, 0xb) error = %v, want ErrReduciblePoly (wrong degree)", err)
	}
	f, err := NewFieldWithPoly(4, 0x19)
	if err != nil {
		t.Fatalf("NewFieldWithPoly(4, 0x19) failed: %v", err)
	}
	if f.Degree() != 4 || f.Poly() != 0x19 || f.Size() != 16 {
		t.Errorf("unexpected field %s", f)
	}
}

func TestU_Field_String(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	if got, want := f.String(), "GF(2^4) mod x^4 + x + 1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := f.ElementString(0); got != "0" {
		t.Errorf("ElementString(0) = %q, want \"0\"", got)
	}
}

// =============================================================================
// [Unit] Field Arithmetic Tests
// =============================================================================

func TestU_Field_InverseAndAdd(t *testing.T) {
	for m := 1; m <= 12; m++ {
		f, err := NewField(m)
		if err != nil {
			t.Fatalf("NewField(%d) failed: %v", m, err)
		}
		for a := 1; a < f.Size(); a++ {
			if got := f.Mult(a, f.Inverse(a)); got != 1 {
				t.Fatalf("m=%d: a=%d * inverse(a) = %d, want 1", m, a, got)
			}
		}
		for a := 0; a < f.Size() && a < 64; a++ {
			for b := 0; b < f.Size() && b < 64; b++ {
				if got := f.Add(f.Add(a, b), b); got != a {
					t.Fatalf("m=%d: add(add(%d,%d),%d) = %d", m, a, b, b, got)
				}
			}
		}
	}
}

func TestU_Field_TablesMatchShiftAndReduce(t *testing.T) {
	f, err := NewField(10)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	for a := 0; a < f.Size(); a += 7 {
		for b := 0; b < f.Size(); b += 13 {
			want := int(binaryModMultiply(uint64(a), uint64(b), f.Poly()))
			if got := f.Mult(a, b); got != want {
				t.Fatalf("Mult(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestU_Field_LargeDegree(t *testing.T) {
	f, err := NewField(20)
	if err != nil {
		t.Fatalf("NewField(20) failed: %v", err)
	}
	rnd := randutil.NewDeterministicReader([]byte("gf2m large field"))
	for i := 0; i < 200; i++ {
		a, err := f.RandomNonZeroElement(rnd)
		if err != nil {
			t.Fatalf("RandomNonZeroElement failed: %v", err)
		}
		if got := f.Mult(a, f.Inverse(a)); got != 1 {
			t.Fatalf("a=%d * inverse(a) = %d, want 1", a, got)
		}
	}
}

func TestU_Field_ExpAndSqrt(t *testing.T) {
	f, err := NewField(8)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	for a := 0; a < f.Size(); a++ {
		s := f.Sqrt(a)
		if got := f.Mult(s, s); got != a {
			t.Fatalf("Sqrt(%d)^2 = %d", a, got)
		}
		if got, want := f.Exp(a, 3), f.Mult(a, f.Mult(a, a)); got != want {
			t.Fatalf("Exp(%d,3) = %d, want %d", a, got, want)
		}
		if a != 0 {
			if got, want := f.Exp(a, -1), f.Inverse(a); got != want {
				t.Fatalf("Exp(%d,-1) = %d, want %d", a, got, want)
			}
		}
	}
}

func TestU_Field_InverseZeroPanics(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Inverse(0) should panic")
		}
	}()
	f.Inverse(0)
}

func TestU_Field_Equal(t *testing.T) {
	a, _ := NewField(4)
	b, _ := NewFieldWithPoly(4, 0x13)
	c, _ := NewFieldWithPoly(4, 0x19)
	if !a.Equal(b) {
		t.Error("fields with the same polynomial should be equal")
	}
	if a.Equal(c) {
		t.Error("fields with different polynomials should differ")
	}
}
