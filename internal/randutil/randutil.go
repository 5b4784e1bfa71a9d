// Package randutil draws uniformly distributed integers from an io.Reader.
//
// Every randomized operation in the module takes its randomness explicitly as
// an io.Reader; this package turns raw bytes into unbiased indices.
package randutil

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidBound is returned when the requested bound is not positive or
// does not fit in 32 bits.
var ErrInvalidBound = errors.New("randutil: invalid bound")

// Reader returns r, or crypto/rand.Reader if r is nil.
func Reader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// Uint32 reads 4 bytes from r as a little-endian uint32.
func Uint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("randutil: read failed: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Intn returns a uniform integer in [0, n) using rejection sampling.
func Intn(r io.Reader, n int) (int, error) {
	if n <= 0 || uint64(n) > math.MaxUint32+1 {
		return 0, ErrInvalidBound
	}
	if n == 1 {
		return 0, nil
	}
	bound := uint64(n)
	// Largest multiple of n that fits in 2^32.
	limit := (uint64(1) << 32) - ((uint64(1) << 32) % bound)
	for {
		v, err := Uint32(r)
		if err != nil {
			return 0, err
		}
		if uint64(v) < limit {
			return int(uint64(v) % bound), nil
		}
	}
}

// Bytes returns n random bytes read from r.
func Bytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("randutil: read failed: %w", err)
	}
	return buf, nil
}
