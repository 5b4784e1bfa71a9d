package mceliece

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/gf2m"
)

// Key encodings start with a one-byte kind tag followed by fixed-width
// big-endian integers and length-prefixed component encodings.
const (
	kindPublic     uint8 = 1
	kindPrivate    uint8 = 2
	kindCCA2Public uint8 = 3
	kindCCA2Priv   uint8 = 4
)

// MarshalBinary encodes the key as kind | n | t | G.
func (k *PublicKey) MarshalBinary() []byte {
	var b cryptobyte.Builder
	b.AddUint8(kindPublic)
	b.AddUint32(uint32(k.N))
	b.AddUint32(uint32(k.T))
	addBlob(&b, k.G.Bytes())
	return b.BytesOrPanic()
}

// UnmarshalPublicKey decodes a key written by PublicKey.MarshalBinary.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	s := cryptobyte.String(data)
	var kind uint8
	var n, t uint32
	var gBytes cryptobyte.String
	if !s.ReadUint8(&kind) || kind != kindPublic ||
		!s.ReadUint32(&n) || !s.ReadUint32(&t) ||
		!readUint32LengthPrefixed(&s, &gBytes) || !s.Empty() {
		return nil, fmt.Errorf("%w: malformed public key", ErrInvalidKey)
	}
	if err := checkCodeLength(n, t); err != nil {
		return nil, err
	}
	g, err := gf2.MatrixFromBytes(gBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if g.Cols() != int(n) || g.Rows() == 0 || g.Rows() >= int(n) || t < 2 {
		return nil, fmt.Errorf("%w: inconsistent public key dimensions", ErrInvalidKey)
	}
	return &PublicKey{N: int(n), T: int(t), G: g}, nil
}

// MarshalBinary encodes the key as kind | n | k | m | field poly | Goppa
// polynomial | P1 | P2 | S^-1. The check matrix and square-root matrix are
// not stored.
func (k *PrivateKey) MarshalBinary() []byte {
	var b cryptobyte.Builder
	b.AddUint8(kindPrivate)
	addCodeHeader(&b, k.N, k.K, k.Field, k.Goppa)
	addBlob(&b, k.P1.Bytes())
	addBlob(&b, k.P2.Bytes())
	addBlob(&b, k.SInv.Bytes())
	return b.BytesOrPanic()
}

// UnmarshalPrivateKey decodes a key written by PrivateKey.MarshalBinary.
func UnmarshalPrivateKey(data []byte) (*PrivateKey, error) {
	s := cryptobyte.String(data)
	var kind uint8
	if !s.ReadUint8(&kind) || kind != kindPrivate {
		return nil, fmt.Errorf("%w: not a private key", ErrInvalidKey)
	}
	hdr, err := readCodeHeader(&s)
	if err != nil {
		return nil, err
	}
	var p1Bytes, p2Bytes, sBytes cryptobyte.String
	if !readUint32LengthPrefixed(&s, &p1Bytes) || !readUint32LengthPrefixed(&s, &p2Bytes) ||
		!readUint32LengthPrefixed(&s, &sBytes) || !s.Empty() {
		return nil, fmt.Errorf("%w: malformed private key", ErrInvalidKey)
	}
	p1, err := readPermutation(p1Bytes, hdr.n)
	if err != nil {
		return nil, err
	}
	p2, err := readPermutation(p2Bytes, hdr.n)
	if err != nil {
		return nil, err
	}
	sInv, err := gf2.MatrixFromBytes(sBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if sInv.Rows() != hdr.k || sInv.Cols() != hdr.k {
		return nil, fmt.Errorf("%w: S^-1 is %dx%d, want %dx%d", ErrInvalidKey, sInv.Rows(), sInv.Cols(), hdr.k, hdr.k)
	}
	h, qInv, err := decodingData(hdr.field, hdr.goppa)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &PrivateKey{
		N: hdr.n, K: hdr.k, Field: hdr.field, Goppa: hdr.goppa,
		P1: p1, P2: p2, SInv: sInv, H: h, QInv: qInv,
	}, nil
}

// MarshalBinary encodes the key as kind | n | t | digest | G.
func (k *CCA2PublicKey) MarshalBinary() []byte {
	var b cryptobyte.Builder
	b.AddUint8(kindCCA2Public)
	b.AddUint32(uint32(k.N))
	b.AddUint32(uint32(k.T))
	addDigest(&b, k.Digest)
	addBlob(&b, k.G.Bytes())
	return b.BytesOrPanic()
}

// UnmarshalCCA2PublicKey decodes a key written by
// CCA2PublicKey.MarshalBinary.
func UnmarshalCCA2PublicKey(data []byte) (*CCA2PublicKey, error) {
	s := cryptobyte.String(data)
	var kind uint8
	var n, t uint32
	var gBytes cryptobyte.String
	if !s.ReadUint8(&kind) || kind != kindCCA2Public || !s.ReadUint32(&n) || !s.ReadUint32(&t) {
		return nil, fmt.Errorf("%w: malformed CCA2 public key", ErrInvalidKey)
	}
	d, err := readDigest(&s)
	if err != nil {
		return nil, err
	}
	if !readUint32LengthPrefixed(&s, &gBytes) || !s.Empty() {
		return nil, fmt.Errorf("%w: malformed CCA2 public key", ErrInvalidKey)
	}
	if err := checkCodeLength(n, t); err != nil {
		return nil, err
	}
	g, err := gf2.MatrixFromBytes(gBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if g.Rows()+g.Cols() != int(n) || g.Rows() == 0 || t < 2 {
		return nil, fmt.Errorf("%w: inconsistent CCA2 public key dimensions", ErrInvalidKey)
	}
	return &CCA2PublicKey{N: int(n), T: int(t), G: g, Digest: d}, nil
}

// MarshalBinary encodes the key as kind | n | k | m | field poly | Goppa
// polynomial | P | digest.
func (k *CCA2PrivateKey) MarshalBinary() []byte {
	var b cryptobyte.Builder
	b.AddUint8(kindCCA2Priv)
	addCodeHeader(&b, k.N, k.K, k.Field, k.Goppa)
	addBlob(&b, k.P.Bytes())
	addDigest(&b, k.Digest)
	return b.BytesOrPanic()
}

// UnmarshalCCA2PrivateKey decodes a key written by
// CCA2PrivateKey.MarshalBinary.
func UnmarshalCCA2PrivateKey(data []byte) (*CCA2PrivateKey, error) {
	s := cryptobyte.String(data)
	var kind uint8
	if !s.ReadUint8(&kind) || kind != kindCCA2Priv {
		return nil, fmt.Errorf("%w: not a CCA2 private key", ErrInvalidKey)
	}
	hdr, err := readCodeHeader(&s)
	if err != nil {
		return nil, err
	}
	var pBytes cryptobyte.String
	if !readUint32LengthPrefixed(&s, &pBytes) {
		return nil, fmt.Errorf("%w: malformed CCA2 private key", ErrInvalidKey)
	}
	p, err := readPermutation(pBytes, hdr.n)
	if err != nil {
		return nil, err
	}
	d, err := readDigest(&s)
	if err != nil {
		return nil, err
	}
	if !s.Empty() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidKey)
	}
	h, qInv, err := decodingData(hdr.field, hdr.goppa)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &CCA2PrivateKey{
		N: hdr.n, K: hdr.k, Field: hdr.field, Goppa: hdr.goppa,
		P: p, Digest: d, H: h, QInv: qInv,
	}, nil
}

func addBlob(b *cryptobyte.Builder, data []byte) {
	b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(data)
	})
}

// readUint32LengthPrefixed is the reader matching addBlob; cryptobyte only
// provides readers up to 24-bit prefixes.
func readUint32LengthPrefixed(s *cryptobyte.String, out *cryptobyte.String) bool {
	var n uint32
	if !s.ReadUint32(&n) || uint64(n) > uint64(len(*s)) {
		return false
	}
	return s.ReadBytes((*[]byte)(out), int(n))
}

// checkCodeLength bounds the code length of a decoded public key before
// any matrix is allocated.
func checkCodeLength(n, t uint32) error {
	if n < 2 || n > 1<<MaxKeyGenDegree || n&(n-1) != 0 || t < 2 || t >= n {
		return fmt.Errorf("%w: code length n=%d t=%d out of range", ErrInvalidKey, n, t)
	}
	return nil
}

func addDigest(b *cryptobyte.Builder, d digest.Name) {
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(d))
	})
}

func readDigest(s *cryptobyte.String) (digest.Name, error) {
	var raw cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&raw) {
		return "", fmt.Errorf("%w: missing digest name", ErrInvalidKey)
	}
	d := digest.Name(raw)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: unknown digest %q", ErrInvalidKey, string(raw))
	}
	return d, nil
}

func addCodeHeader(b *cryptobyte.Builder, n, k int, f *gf2m.Field, g *gf2m.Polynomial) {
	b.AddUint32(uint32(n))
	b.AddUint32(uint32(k))
	b.AddUint32(uint32(f.Degree()))
	b.AddUint64(f.Poly())
	addBlob(b, g.Bytes())
}

type codeHeader struct {
	n, k  int
	field *gf2m.Field
	goppa *gf2m.Polynomial
}

func readCodeHeader(s *cryptobyte.String) (*codeHeader, error) {
	var n, k, m uint32
	var poly uint64
	var gBytes cryptobyte.String
	if !s.ReadUint32(&n) || !s.ReadUint32(&k) || !s.ReadUint32(&m) ||
		!s.ReadUint64(&poly) || !readUint32LengthPrefixed(s, &gBytes) {
		return nil, fmt.Errorf("%w: malformed code header", ErrInvalidKey)
	}
	if m < 1 || m > MaxKeyGenDegree {
		return nil, fmt.Errorf("%w: field degree %d out of range", ErrInvalidKey, m)
	}
	field, err := gf2m.NewFieldWithPoly(int(m), poly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	g, err := gf2m.PolynomialFromBytes(field, gBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	t := g.Degree()
	if int(n) != field.Size() || t < 2 || int(k) != field.Size()-int(m)*t || k == 0 {
		return nil, fmt.Errorf("%w: inconsistent code dimensions", ErrInvalidKey)
	}
	if !g.IsIrreducible() {
		return nil, fmt.Errorf("%w: Goppa polynomial is reducible", ErrInvalidKey)
	}
	return &codeHeader{n: int(n), k: int(k), field: field, goppa: g}, nil
}

func readPermutation(data []byte, n int) (*gf2.Permutation, error) {
	p, err := gf2.PermutationFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if p.Len() != n {
		return nil, fmt.Errorf("%w: permutation length %d, want %d", ErrInvalidKey, p.Len(), n)
	}
	return p, nil
}
