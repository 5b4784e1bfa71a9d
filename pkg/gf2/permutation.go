package gf2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/remiblancher/mceliece/internal/randutil"
)

// ErrInvalidPermutation is returned when a slice or encoding is not a
// bijection on [0, n).
var ErrInvalidPermutation = errors.New("gf2: invalid permutation")

// Permutation is a bijection on [0, n).
type Permutation struct {
	perm []int
}

// NewIdentityPermutation returns the identity on [0, n).
func NewIdentityPermutation(n int) *Permutation {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &Permutation{perm: p}
}

// NewRandomPermutation returns a uniformly random permutation of length n.
func NewRandomPermutation(n int, r io.Reader) (*Permutation, error) {
	r = randutil.Reader(r)
	help := make([]int, n)
	for i := range help {
		help[i] = i
	}
	p := make([]int, n)
	k := n
	for j := 0; j < n; j++ {
		i, err := randutil.Intn(r, k)
		if err != nil {
			return nil, err
		}
		k--
		p[j] = help[i]
		help[i] = help[k]
	}
	return &Permutation{perm: p}, nil
}

// PermutationFromSlice validates p and returns it as a Permutation.
func PermutationFromSlice(p []int) (*Permutation, error) {
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) {
			return nil, fmt.Errorf("%w: entry %d = %d out of range", ErrInvalidPermutation, i, v)
		}
		if seen[v] {
			return nil, fmt.Errorf("%w: value %d repeated", ErrInvalidPermutation, v)
		}
		seen[v] = true
	}
	return &Permutation{perm: append([]int(nil), p...)}, nil
}

// PermutationFromBytes decodes a permutation written by Bytes.
func PermutationFromBytes(b []byte) (*Permutation, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: encoded length %d", ErrInvalidPermutation, len(b))
	}
	n := int(binary.LittleEndian.Uint32(b))
	if len(b) != 4*(n+1) {
		return nil, fmt.Errorf("%w: length %d does not match n=%d", ErrInvalidPermutation, len(b), n)
	}
	p := make([]int, n)
	for i := range p {
		p[i] = int(binary.LittleEndian.Uint32(b[4*(i+1):]))
	}
	return PermutationFromSlice(p)
}

// Bytes encodes the length followed by each entry, all as 4-byte
// little-endian integers.
func (p *Permutation) Bytes() []byte {
	out := make([]byte, 4*(len(p.perm)+1))
	binary.LittleEndian.PutUint32(out, uint32(len(p.perm)))
	for i, v := range p.perm {
		binary.LittleEndian.PutUint32(out[4*(i+1):], uint32(v))
	}
	return out
}

// Len returns n.
func (p *Permutation) Len() int { return len(p.perm) }

// Slice returns a copy of the mapping.
func (p *Permutation) Slice() []int { return append([]int(nil), p.perm...) }

// At returns p[i].
func (p *Permutation) At(i int) int { return p.perm[i] }

// Inverse returns p^-1.
func (p *Permutation) Inverse() *Permutation {
	inv := make([]int, len(p.perm))
	for i, v := range p.perm {
		inv[v] = i
	}
	return &Permutation{perm: inv}
}

// Compose returns the permutation i -> p[q[i]]. Permuting a vector by the
// result equals permuting by p and then by q.
func (p *Permutation) Compose(q *Permutation) *Permutation {
	if len(p.perm) != len(q.perm) {
		panic(fmt.Sprintf("gf2: permutation length mismatch %d != %d", len(p.perm), len(q.perm)))
	}
	out := make([]int, len(p.perm))
	for i, v := range q.perm {
		out[i] = p.perm[v]
	}
	return &Permutation{perm: out}
}

// Equal reports whether p and q are the same mapping.
func (p *Permutation) Equal(q *Permutation) bool {
	if p == nil || q == nil {
		return p == q
	}
	if len(p.perm) != len(q.perm) {
		return false
	}
	for i := range p.perm {
		if p.perm[i] != q.perm[i] {
			return false
		}
	}
	return true
}

func (p *Permutation) String() string {
	return fmt.Sprint(p.perm)
}
