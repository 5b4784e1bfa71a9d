// Package gf2 implements dense linear algebra over GF(2): bit vectors,
// bit matrices and permutations.
//
// Vectors and matrix rows are packed into uint64 words, least significant
// bit first. Dimension mismatches between operands are programming errors
// and panic; data decoded from bytes is validated and reported as errors.
package gf2

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/remiblancher/mceliece/internal/randutil"
)

var (
	// ErrInvalidLength is returned when encoded data does not match the
	// requested dimension.
	ErrInvalidLength = errors.New("gf2: invalid encoded length")

	// ErrInvalidWeight is returned when a weight is outside [0, n].
	ErrInvalidWeight = errors.New("gf2: invalid weight")
)

// Vector is a binary vector of fixed length.
type Vector struct {
	n     int
	words []uint64
}

func wordsFor(n int) int { return (n + 63) >> 6 }

// NewVector returns the zero vector of length n.
func NewVector(n int) *Vector {
	if n < 0 {
		panic("gf2: negative vector length")
	}
	return &Vector{n: n, words: make([]uint64, wordsFor(n))}
}

// NewRandomVector returns a uniformly random vector of length n.
func NewRandomVector(n int, r io.Reader) (*Vector, error) {
	buf, err := randutil.Bytes(randutil.Reader(r), (n+7)/8)
	if err != nil {
		return nil, err
	}
	return VectorFromBytes(n, buf)
}

// NewRandomWeightVector returns a uniformly random vector of length n with
// exactly t bits set.
func NewRandomWeightVector(n, t int, r io.Reader) (*Vector, error) {
	if t < 0 || t > n {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidWeight, t, n)
	}
	r = randutil.Reader(r)
	help := make([]int, n)
	for i := range help {
		help[i] = i
	}
	v := NewVector(n)
	m := n
	for i := 0; i < t; i++ {
		j, err := randutil.Intn(r, m)
		if err != nil {
			return nil, err
		}
		v.SetBit(help[j], 1)
		m--
		help[j] = help[m]
	}
	return v, nil
}

// VectorFromBytes decodes a vector of length n. Bit i of the vector is bit
// i%8 of byte i/8. The input may be shorter than ceil(n/8) bytes; bits
// beyond n in the last byte are ignored.
func VectorFromBytes(n int, b []byte) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidLength, n)
	}
	if len(b) > (n+7)/8 {
		return nil, fmt.Errorf("%w: %d bytes for a %d-bit vector", ErrInvalidLength, len(b), n)
	}
	v := NewVector(n)
	for i, x := range b {
		v.words[i>>3] |= uint64(x) << (8 * uint(i&7))
	}
	v.clearTail()
	return v, nil
}

// Bytes encodes v in exactly ceil(n/8) bytes.
func (v *Vector) Bytes() []byte {
	out := make([]byte, (v.n+7)/8)
	for i := range out {
		out[i] = byte(v.words[i>>3] >> (8 * uint(i&7)))
	}
	return out
}

func (v *Vector) clearTail() {
	if rem := v.n & 63; rem != 0 {
		v.words[len(v.words)-1] &= (uint64(1) << uint(rem)) - 1
	}
}

// Len returns the vector length.
func (v *Vector) Len() int { return v.n }

// Bit returns bit i.
func (v *Vector) Bit(i int) uint {
	v.checkIndex(i)
	return uint(v.words[i>>6]>>uint(i&63)) & 1
}

// SetBit sets bit i to b&1.
func (v *Vector) SetBit(i int, b uint) {
	v.checkIndex(i)
	mask := uint64(1) << uint(i&63)
	if b&1 != 0 {
		v.words[i>>6] |= mask
	} else {
		v.words[i>>6] &^= mask
	}
}

func (v *Vector) checkIndex(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("gf2: index %d out of range [0, %d)", i, v.n))
	}
}

// Weight returns the Hamming weight.
func (v *Vector) Weight() int {
	w := 0
	for _, x := range v.words {
		w += bits.OnesCount64(x)
	}
	return w
}

// IsZero reports whether every bit is zero.
func (v *Vector) IsZero() bool {
	for _, x := range v.words {
		if x != 0 {
			return false
		}
	}
	return true
}

// Add returns v + w.
func (v *Vector) Add(w *Vector) *Vector {
	if v.n != w.n {
		panic(fmt.Sprintf("gf2: vector length mismatch %d != %d", v.n, w.n))
	}
	out := NewVector(v.n)
	for i := range out.words {
		out.words[i] = v.words[i] ^ w.words[i]
	}
	return out
}

// Permute returns the vector whose bit i is bit p[i] of v.
func (v *Vector) Permute(p *Permutation) *Vector {
	if p.Len() != v.n {
		panic(fmt.Sprintf("gf2: permutation length %d != vector length %d", p.Len(), v.n))
	}
	out := NewVector(v.n)
	for i, j := range p.perm {
		if v.words[j>>6]&(uint64(1)<<uint(j&63)) != 0 {
			out.words[i>>6] |= uint64(1) << uint(i&63)
		}
	}
	return out
}

// ExtractLeft returns the first k bits.
func (v *Vector) ExtractLeft(k int) *Vector {
	return v.extract(0, k)
}

// ExtractRight returns the last k bits.
func (v *Vector) ExtractRight(k int) *Vector {
	return v.extract(v.n-k, k)
}

func (v *Vector) extract(from, k int) *Vector {
	if k < 0 || from < 0 || from+k > v.n {
		panic(fmt.Sprintf("gf2: cannot extract %d bits at %d from length %d", k, from, v.n))
	}
	out := NewVector(k)
	for i := 0; i < k; i++ {
		j := from + i
		if v.words[j>>6]&(uint64(1)<<uint(j&63)) != 0 {
			out.words[i>>6] |= uint64(1) << uint(i&63)
		}
	}
	return out
}

// Concat returns v || w.
func (v *Vector) Concat(w *Vector) *Vector {
	out := NewVector(v.n + w.n)
	copy(out.words, v.words)
	for i := 0; i < w.n; i++ {
		if w.words[i>>6]&(uint64(1)<<uint(i&63)) != 0 {
			j := v.n + i
			out.words[j>>6] |= uint64(1) << uint(j&63)
		}
	}
	return out
}

// Equal reports whether v and w have the same length and bits.
func (v *Vector) Equal(w *Vector) bool {
	if v == nil || w == nil {
		return v == w
	}
	if v.n != w.n {
		return false
	}
	for i := range v.words {
		if v.words[i] != w.words[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of v.
func (v *Vector) Clone() *Vector {
	return &Vector{n: v.n, words: append([]uint64(nil), v.words...)}
}

// String renders the bits in index order, grouped by eight.
func (v *Vector) String() string {
	var sb strings.Builder
	for i := 0; i < v.n; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		if v.Bit(i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
