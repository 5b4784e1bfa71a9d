package gf2m

import "math/bits"

// Binary polynomials are stored as bit masks: bit i is the coefficient of x^i.
// Field polynomials of degree up to 32 need 33 bits, hence uint64.

// BinaryDegree returns the degree of the binary polynomial p, or -1 for p == 0.
func BinaryDegree(p uint64) int {
	return bits.Len64(p) - 1
}

// binaryRemainder returns a mod p.
func binaryRemainder(a, p uint64) uint64 {
	dp := BinaryDegree(p)
	for da := BinaryDegree(a); da >= dp; da = BinaryDegree(a) {
		a ^= p << uint(da-dp)
	}
	return a
}

// binaryModMultiply returns a*b mod p. Both operands must already be reduced.
func binaryModMultiply(a, b, p uint64) uint64 {
	a = binaryRemainder(a, p)
	b = binaryRemainder(b, p)
	dp := BinaryDegree(p)
	top := uint64(1) << uint(dp)

	var result uint64
	for b != 0 {
		if b&1 != 0 {
			result ^= a
		}
		b >>= 1
		a <<= 1
		if a&top != 0 {
			a ^= p
		}
	}
	return result
}

// binaryGCD returns gcd(a, b) over GF(2).
func binaryGCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, binaryRemainder(a, b)
	}
	return a
}

// IsIrreducibleBinary reports whether p is irreducible over GF(2).
// It checks gcd(x^(2^i) - x, p) == 1 for i = 1..deg(p)/2.
func IsIrreducibleBinary(p uint64) bool {
	if p == 0 {
		return false
	}
	d := BinaryDegree(p)
	if d == 0 {
		return false
	}
	if d == 1 {
		return true
	}
	u := uint64(2)
	for i := 0; i < d/2; i++ {
		u = binaryModMultiply(u, u, p)
		if binaryGCD(u^2, p) != 1 {
			return false
		}
	}
	return true
}

// IrreducibleBinaryPolynomial returns the smallest irreducible binary
// polynomial of the given degree, or 0 if deg is outside [1, 32].
func IrreducibleBinaryPolynomial(deg int) uint64 {
	if deg < 1 || deg > MaxDegree {
		return 0
	}
	lo := uint64(1)<<uint(deg) | 1
	hi := uint64(1) << uint(deg+1)
	for p := lo; p < hi; p += 2 {
		if IsIrreducibleBinary(p) {
			return p
		}
	}
	return 0
}
