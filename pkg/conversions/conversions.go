// Package conversions maps integers in [0, C(n,t)) to binary vectors of
// length n and weight t and back, using the combinatorial number system.
//
// The CCA2 conversions use it to turn a hash output into the error vector
// of a McEliece encryption.
package conversions

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/remiblancher/mceliece/pkg/gf2"
)

var (
	// ErrOutOfRange is returned when the integer to encode is not below
	// C(n, t).
	ErrOutOfRange = errors.New("conversions: encoded number too large")

	// ErrInvalidVector is returned when the vector to decode does not have
	// length n and weight t.
	ErrInvalidVector = errors.New("conversions: vector length or weight mismatch")

	// ErrInvalidParameters is returned unless 0 <= t <= n.
	ErrInvalidParameters = errors.New("conversions: invalid parameters")
)

var one = big.NewInt(1)

// Binomial returns C(n, t).
func Binomial(n, t int) *big.Int {
	if t < 0 || t > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(t))
}

// MaxEncodableBits returns floor(log2 C(n, t)), the number of bits that can
// always be encoded.
func MaxEncodableBits(n, t int) int {
	return Binomial(n, t).BitLen() - 1
}

// TruncateToEncodable shortens digest so that its big-endian value has at
// most MaxEncodableBits(n, t) bits. Digests that already fit are returned
// unchanged.
func TruncateToEncodable(n, t int, digest []byte) []byte {
	s := MaxEncodableBits(n, t)
	if s < 0 {
		return nil
	}
	if len(digest)*8 <= s {
		return digest
	}
	nbytes := (s + 7) / 8
	out := append([]byte(nil), digest[:nbytes]...)
	if excess := nbytes*8 - s; excess > 0 {
		out[0] &= 0xff >> uint(excess)
	}
	return out
}

// Encode returns the weight-t vector of length n with rank i, where i is the
// big-endian integer in b.
func Encode(n, t int, b []byte) (*gf2.Vector, error) {
	if n < 0 || t < 0 || t > n {
		return nil, fmt.Errorf("%w: n=%d, t=%d", ErrInvalidParameters, n, t)
	}
	c := Binomial(n, t)
	i := new(big.Int).SetBytes(b)
	if i.Cmp(c) >= 0 {
		return nil, ErrOutOfRange
	}

	v := gf2.NewVector(n)
	nn, tt := n, t
	tmp := new(big.Int)
	for j := 0; j < n; j++ {
		// c = C(nn-1, tt): ranks with bit j clear.
		c.Mul(c, tmp.SetInt64(int64(nn-tt)))
		c.Quo(c, tmp.SetInt64(int64(nn)))
		nn--
		if c.Cmp(i) <= 0 {
			v.SetBit(j, 1)
			i.Sub(i, c)
			tt--
			c = nextBinomial(c, nn, tt, tmp)
		}
	}
	return v, nil
}

// Decode returns the rank of v as a minimal big-endian byte string.
func Decode(n, t int, v *gf2.Vector) ([]byte, error) {
	if n < 0 || t < 0 || t > n {
		return nil, fmt.Errorf("%w: n=%d, t=%d", ErrInvalidParameters, n, t)
	}
	if v.Len() != n || v.Weight() != t {
		return nil, ErrInvalidVector
	}

	c := Binomial(n, t)
	d := new(big.Int)
	nn, tt := n, t
	tmp := new(big.Int)
	for j := 0; j < n; j++ {
		c.Mul(c, tmp.SetInt64(int64(nn-tt)))
		c.Quo(c, tmp.SetInt64(int64(nn)))
		nn--
		if v.Bit(j) != 0 {
			d.Add(d, c)
			tt--
			c = nextBinomial(c, nn, tt, tmp)
		}
	}
	return d.Bytes(), nil
}

// nextBinomial turns c = C(nn, tt+1) into C(nn, tt).
func nextBinomial(c *big.Int, nn, tt int, tmp *big.Int) *big.Int {
	if nn == tt {
		return new(big.Int).Set(one)
	}
	c.Mul(c, tmp.SetInt64(int64(tt+1)))
	c.Quo(c, tmp.SetInt64(int64(nn-tt)))
	return c
}
