package goppa

import (
	"errors"
	"io"
	"testing"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/gf2m"
)

type testCode struct {
	field *gf2m.Field
	g     *gf2m.Polynomial
	h     *gf2.Matrix
	qInv  []*gf2m.Polynomial
}

func newTestCode(t *testing.T, m, deg int, rnd io.Reader) *testCode {
	t.Helper()
	f, err := gf2m.NewField(m)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	g, err := gf2m.NewRandomIrreduciblePolynomial(f, deg, rnd)
	if err != nil {
		t.Fatalf("NewRandomIrreduciblePolynomial failed: %v", err)
	}
	ring, err := gf2m.NewRing(f, g)
	if err != nil {
		t.Fatalf("NewRing failed: %v", err)
	}
	return &testCode{field: f, g: g, h: CanonicalCheckMatrix(f, g), qInv: ring.SquareRootMatrix()}
}

// =============================================================================
// [Unit] Check Matrix
// =============================================================================

func TestU_CanonicalCheckMatrix_Dimensions(t *testing.T) {
	c := newTestCode(t, 6, 5, randutil.NewDeterministicReader([]byte("dimensions")))
	if c.h.Rows() != 30 || c.h.Cols() != 64 {
		t.Errorf("H is %dx%d, want 30x64", c.h.Rows(), c.h.Cols())
	}
}

// =============================================================================
// [Unit] Systematic Form
// =============================================================================

func TestU_ComputeSystematicForm(t *testing.T) {
	tests := []struct {
		name string
		m    int
		t    int
	}{
		{"[Unit] SystematicForm: m=5, t=3", 5, 3},
		{"[Unit] SystematicForm: m=6, t=5", 6, 5},
		{"[Unit] SystematicForm: m=8, t=10", 8, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rnd := randutil.NewDeterministicReader([]byte(tt.name))
			var c *testCode
			var sf *SystematicForm
			// A rank-deficient check matrix is possible for small codes; draw
			// another polynomial in that case.
			for attempt := 0; attempt < 10; attempt++ {
				c = newTestCode(t, tt.m, tt.t, rnd)
				var err error
				sf, err = ComputeSystematicForm(c.h, rnd)
				if err == nil {
					break
				}
				if !errors.Is(err, gf2.ErrRankDeficient) {
					t.Fatalf("ComputeSystematicForm failed: %v", err)
				}
			}
			if sf == nil {
				t.Fatal("no full-rank check matrix drawn")
			}

			mt := tt.m * tt.t
			n := 1 << uint(tt.m)
			if sf.First.Rows() != mt || sf.First.Cols() != mt {
				t.Fatalf("First is %dx%d, want %dx%d", sf.First.Rows(), sf.First.Cols(), mt, mt)
			}
			if sf.Second.Rows() != mt || sf.Second.Cols() != n-mt {
				t.Fatalf("Second is %dx%d, want %dx%d", sf.Second.Rows(), sf.Second.Cols(), mt, n-mt)
			}

			firstInv, err := sf.First.Inverse()
			if err != nil {
				t.Fatalf("First is singular: %v", err)
			}
			hp := firstInv.Multiply(c.h.PermuteColumns(sf.Perm))
			if !hp.LeftSubMatrix().IsIdentity() {
				t.Error("left block of First^-1*H*P is not the identity")
			}
			if !hp.RightSubMatrix().Equal(sf.Second) {
				t.Error("right block of First^-1*H*P differs from Second")
			}

			// Rows of [Second^T | I] are codewords of H*P.
			gen := sf.Second.Transpose().ExtendLeftCompactForm()
			b, _ := gf2.NewRandomVector(gen.Rows(), rnd)
			codeword := gen.LeftMultiply(b)
			if !c.h.PermuteColumns(sf.Perm).MultiplyVector(codeword).IsZero() {
				t.Error("generated word has a nonzero syndrome")
			}
		})
	}
}

// =============================================================================
// [Unit] Syndrome Decoding
// =============================================================================

func TestU_SyndromeDecode_RecoversErrors(t *testing.T) {
	tests := []struct {
		name string
		m    int
		t    int
	}{
		{"[Unit] SyndromeDecode: m=4, t=2", 4, 2},
		{"[Unit] SyndromeDecode: m=6, t=4", 6, 4},
		{"[Unit] SyndromeDecode: m=8, t=9", 8, 9},
		{"[Unit] SyndromeDecode: m=10, t=20", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rnd := randutil.NewDeterministicReader([]byte(tt.name))
			c := newTestCode(t, tt.m, tt.t, rnd)
			n := c.field.Size()

			for w := 0; w <= tt.t; w++ {
				e, err := gf2.NewRandomWeightVector(n, w, rnd)
				if err != nil {
					t.Fatalf("NewRandomWeightVector failed: %v", err)
				}
				s := c.h.MultiplyVector(e)
				got, err := SyndromeDecode(s, c.field, c.g, c.qInv)
				if err != nil {
					t.Fatalf("weight %d: SyndromeDecode failed: %v", w, err)
				}
				if !got.Equal(e) {
					t.Fatalf("weight %d: decoded\n%s\nwant\n%s", w, got, e)
				}
			}
		})
	}
}

func TestU_SyndromeDecode_ErrorAtZero(t *testing.T) {
	rnd := randutil.NewDeterministicReader([]byte("error at zero"))
	c := newTestCode(t, 5, 3, rnd)
	e := gf2.NewVector(c.field.Size())
	e.SetBit(0, 1)

	got, err := SyndromeDecode(c.h.MultiplyVector(e), c.field, c.g, c.qInv)
	if err != nil {
		t.Fatalf("SyndromeDecode failed: %v", err)
	}
	if !got.Equal(e) {
		t.Errorf("decoded %s, want %s", got, e)
	}
}

func TestU_SyndromeDecode_ZeroSyndrome(t *testing.T) {
	c := newTestCode(t, 5, 3, randutil.NewDeterministicReader([]byte("zero syndrome")))
	got, err := SyndromeDecode(gf2.NewVector(15), c.field, c.g, c.qInv)
	if err != nil {
		t.Fatalf("SyndromeDecode failed: %v", err)
	}
	if !got.IsZero() || got.Len() != 32 {
		t.Errorf("expected zero vector of length 32, got %s", got)
	}
}

func TestU_SyndromeToPolynomial(t *testing.T) {
	f, err := gf2m.NewField(4)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	s := gf2.NewVector(8)
	// First nibble is the x^1 coefficient, most significant bit first.
	s.SetBit(0, 1)
	s.SetBit(7, 1)

	p, err := SyndromeToPolynomial(s, f)
	if err != nil {
		t.Fatalf("SyndromeToPolynomial failed: %v", err)
	}
	if p.Coefficient(1) != 0x8 || p.Coefficient(0) != 0x1 {
		t.Errorf("got %s, want 0x8*x + 0x1", p)
	}

	if _, err := SyndromeToPolynomial(gf2.NewVector(7), f); err == nil {
		t.Error("expected error for a length not divisible by m")
	}
}
