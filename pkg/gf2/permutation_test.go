package gf2

import (
	"errors"
	"testing"

	"github.com/remiblancher/mceliece/internal/randutil"
)

func TestU_PermutationFromSlice(t *testing.T) {
	tests := []struct {
		name    string
		p       []int
		wantErr bool
	}{
		{"[Unit] FromSlice: identity", []int{0, 1, 2, 3}, false},
		{"[Unit] FromSlice: reversed", []int{3, 2, 1, 0}, false},
		{"[Unit] FromSlice: empty", []int{}, false},
		{"[Unit] FromSlice: repeated", []int{0, 1, 1, 3}, true},
		{"[Unit] FromSlice: out of range", []int{0, 1, 4, 2}, true},
		{"[Unit] FromSlice: negative", []int{-1, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PermutationFromSlice(tt.p)
			if tt.wantErr && !errors.Is(err, ErrInvalidPermutation) {
				t.Errorf("expected ErrInvalidPermutation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestU_Permutation_InverseAndCompose(t *testing.T) {
	rnd := randutil.NewDeterministicReader([]byte("permutation"))
	p, _ := NewRandomPermutation(100, rnd)
	q, _ := NewRandomPermutation(100, rnd)

	if !p.Compose(p.Inverse()).Equal(NewIdentityPermutation(100)) {
		t.Error("p o p^-1 should be the identity")
	}

	v, _ := NewRandomVector(100, rnd)
	if got, want := v.Permute(p.Compose(q)), v.Permute(p).Permute(q); !got.Equal(want) {
		t.Error("v.Permute(p.Compose(q)) != v.Permute(p).Permute(q)")
	}
}

func TestU_Permutation_IsBijection(t *testing.T) {
	rnd := randutil.NewDeterministicReader([]byte("bijection"))
	p, err := NewRandomPermutation(500, rnd)
	if err != nil {
		t.Fatalf("NewRandomPermutation failed: %v", err)
	}
	if _, err := PermutationFromSlice(p.Slice()); err != nil {
		t.Errorf("random permutation is not a bijection: %v", err)
	}
}

func TestU_Permutation_Bytes(t *testing.T) {
	rnd := randutil.NewDeterministicReader([]byte("permutation bytes"))
	p, _ := NewRandomPermutation(37, rnd)
	got, err := PermutationFromBytes(p.Bytes())
	if err != nil {
		t.Fatalf("PermutationFromBytes failed: %v", err)
	}
	if !got.Equal(p) {
		t.Error("decoded permutation differs")
	}

	// Entries are below 256, so copying one low byte duplicates a value.
	bad := p.Bytes()
	bad[8] = bad[12]
	if _, err := PermutationFromBytes(bad); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("corrupted encoding error = %v, want ErrInvalidPermutation", err)
	}
	if _, err := PermutationFromBytes(bad[:7]); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("truncated encoding error = %v, want ErrInvalidPermutation", err)
	}
}
