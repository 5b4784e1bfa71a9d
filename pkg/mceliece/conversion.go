package mceliece

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/conversions"
	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/gf2"
)

// kobaraImaiConstant is appended to the message before masking and checked
// on decryption.
var kobaraImaiConstant = []byte("a predetermined public constant")

var (
	errShortCiphertext = errors.New("ciphertext shorter than the primitive output")
	errHashMismatch    = errors.New("error vector does not match the message hash")
	errConstant        = errors.New("public constant mismatch")
)

// Conversion is a CCA2-secure construction on top of the McEliece
// primitive.
type Conversion interface {
	// Algorithm returns the identifier of the conversion.
	Algorithm() AlgorithmID
	// Encrypt encrypts msg. Messages of any length are accepted.
	Encrypt(random io.Reader, pub *CCA2PublicKey, msg []byte) ([]byte, error)
	// Decrypt reverses Encrypt. Every failure is ErrDecryption.
	Decrypt(priv *CCA2PrivateKey, ct []byte) ([]byte, error)
	// CiphertextSize returns the ciphertext length for a message of msgLen
	// bytes.
	CiphertextSize(pub *CCA2PublicKey, msgLen int) int
}

// The available conversions.
var (
	Fujisaki    Conversion = fujisaki{}
	Pointcheval Conversion = pointcheval{}
	KobaraImai  Conversion = kobaraImai{}
)

// keystream returns n bytes of SHAKE256(seed).
func keystream(seed []byte, n int) []byte {
	out := make([]byte, n)
	sha3.ShakeSum256(out, seed)
	return out
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// hashToErrorVector maps H(parts) to a weight-t error vector.
func hashToErrorVector(d digest.Name, n, t int, parts ...[]byte) (*gf2.Vector, error) {
	h, err := digest.Sum(d, parts...)
	if err != nil {
		return nil, err
	}
	return conversions.Encode(n, t, conversions.TruncateToEncodable(n, t, h))
}

// splitPrimitive decodes the leading ceil(n/8) bytes of ct.
func splitPrimitive(priv *CCA2PrivateKey, ct []byte) (m, z *gf2.Vector, rest []byte, err error) {
	c1Len := ciphertextBytes(priv.N)
	if len(ct) < c1Len {
		return nil, nil, nil, errShortCiphertext
	}
	c1, err := gf2.VectorFromBytes(priv.N, ct[:c1Len])
	if err != nil {
		return nil, nil, nil, err
	}
	m, z, err = decryptPrimitive(priv, c1)
	if err != nil {
		return nil, nil, nil, err
	}
	return m, z, ct[c1Len:], nil
}

// fujisaki is the Fujisaki-Okamoto conversion:
// c = E(r, Conv(H(r||m))) || m XOR PRG(r).
type fujisaki struct{}

func (fujisaki) Algorithm() AlgorithmID { return AlgMcElieceFujisaki }

func (fujisaki) CiphertextSize(pub *CCA2PublicKey, msgLen int) int {
	return ciphertextBytes(pub.N) + msgLen
}

func (fujisaki) Encrypt(random io.Reader, pub *CCA2PublicKey, msg []byte) ([]byte, error) {
	r, err := gf2.NewRandomVector(pub.K(), randutil.Reader(random))
	if err != nil {
		return nil, err
	}
	rBytes := r.Bytes()
	z, err := hashToErrorVector(pub.Digest, pub.N, pub.T, rBytes, msg)
	if err != nil {
		return nil, err
	}
	c1 := encryptPrimitive(pub, r, z).Bytes()

	c2 := keystream(rBytes, len(msg))
	xorInto(c2, msg)
	return append(c1, c2...), nil
}

func (fujisaki) Decrypt(priv *CCA2PrivateKey, ct []byte) ([]byte, error) {
	r, z, c2, err := splitPrimitive(priv, ct)
	if err != nil {
		return nil, decryptionFailure("fujisaki", err)
	}
	rBytes := r.Bytes()
	msg := keystream(rBytes, len(c2))
	xorInto(msg, c2)

	want, err := hashToErrorVector(priv.Digest, priv.N, priv.T(), rBytes, msg)
	if err != nil {
		return nil, decryptionFailure("fujisaki", err)
	}
	if !want.Equal(z) {
		return nil, decryptionFailure("fujisaki", errHashMismatch)
	}
	return msg, nil
}

// pointcheval is the Pointcheval conversion: a random r of k/8 bytes is
// hashed with the message and masked together with it.
// c = E(r', Conv(H(m||r))) || (m||r) XOR PRG(r').
type pointcheval struct{}

func (pointcheval) Algorithm() AlgorithmID { return AlgMcEliecePointcheval }

func (pointcheval) CiphertextSize(pub *CCA2PublicKey, msgLen int) int {
	return ciphertextBytes(pub.N) + msgLen + pub.K()/8
}

func (pointcheval) Encrypt(random io.Reader, pub *CCA2PublicKey, msg []byte) ([]byte, error) {
	random = randutil.Reader(random)
	r, err := randutil.Bytes(random, pub.K()/8)
	if err != nil {
		return nil, err
	}
	rPrime, err := gf2.NewRandomVector(pub.K(), random)
	if err != nil {
		return nil, err
	}
	mr := append(append([]byte(nil), msg...), r...)
	z, err := hashToErrorVector(pub.Digest, pub.N, pub.T, mr)
	if err != nil {
		return nil, err
	}
	c1 := encryptPrimitive(pub, rPrime, z).Bytes()

	c2 := keystream(rPrime.Bytes(), len(mr))
	xorInto(c2, mr)
	return append(c1, c2...), nil
}

func (pointcheval) Decrypt(priv *CCA2PrivateKey, ct []byte) ([]byte, error) {
	rPrime, z, c2, err := splitPrimitive(priv, ct)
	if err != nil {
		return nil, decryptionFailure("pointcheval", err)
	}
	rLen := priv.K / 8
	if len(c2) < rLen {
		return nil, decryptionFailure("pointcheval", errShortCiphertext)
	}
	mr := keystream(rPrime.Bytes(), len(c2))
	xorInto(mr, c2)

	want, err := hashToErrorVector(priv.Digest, priv.N, priv.T(), mr)
	if err != nil {
		return nil, decryptionFailure("pointcheval", err)
	}
	if !want.Equal(z) {
		return nil, decryptionFailure("pointcheval", errHashMismatch)
	}
	return mr[:len(mr)-rLen], nil
}

// kobaraImai is the Kobara-Imai gamma conversion. The masked message and
// its hash are split so that part of them becomes the primitive's message
// and part its error vector, which keeps the ciphertext expansion small.
type kobaraImai struct{}

func (kobaraImai) Algorithm() AlgorithmID { return AlgMcElieceKobaraImai }

// kobaraImaiLayout holds the lengths for one (key, message) pair.
type kobaraImaiLayout struct {
	c1, c2, c4, c5, c6 int
	mLen               int
}

func newKobaraImaiLayout(n, k, t int, d digest.Name, paddedLen int) kobaraImaiLayout {
	var l kobaraImaiLayout
	l.c2 = d.Size()
	l.c4 = k >> 3
	l.c5 = conversions.MaxEncodableBits(n, t) >> 3
	l.mLen = l.c4 + l.c5 - l.c2 - len(kobaraImaiConstant)
	if paddedLen > l.mLen {
		l.mLen = paddedLen
	}
	l.c1 = l.mLen + len(kobaraImaiConstant)
	l.c6 = l.c1 + l.c2 - l.c4 - l.c5
	return l
}

func (kobaraImai) CiphertextSize(pub *CCA2PublicKey, msgLen int) int {
	l := newKobaraImaiLayout(pub.N, pub.K(), pub.T, pub.Digest, msgLen+1)
	return l.c6 + ciphertextBytes(pub.N)
}

func (kobaraImai) Encrypt(random io.Reader, pub *CCA2PublicKey, msg []byte) ([]byte, error) {
	padded := append(append([]byte(nil), msg...), paddingMarker)
	l := newKobaraImaiLayout(pub.N, pub.K(), pub.T, pub.Digest, len(padded))

	mConst := make([]byte, l.c1)
	copy(mConst, padded)
	copy(mConst[l.mLen:], kobaraImaiConstant)

	r, err := randutil.Bytes(randutil.Reader(random), l.c2)
	if err != nil {
		return nil, err
	}
	c1 := keystream(r, l.c1)
	xorInto(c1, mConst)

	c2, err := digest.Sum(pub.Digest, c1)
	if err != nil {
		return nil, err
	}
	xorInto(c2, r)

	// c2 || c1 = c6 || c5 || c4
	c2c1 := append(c2, c1...)
	c6 := c2c1[:l.c6]
	c5 := c2c1[l.c6 : l.c6+l.c5]
	c4 := c2c1[l.c6+l.c5:]

	c4Vec, err := gf2.VectorFromBytes(pub.K(), c4)
	if err != nil {
		return nil, err
	}
	z, err := conversions.Encode(pub.N, pub.T, c5)
	if err != nil {
		return nil, err
	}
	enc := encryptPrimitive(pub, c4Vec, z).Bytes()
	return append(append([]byte(nil), c6...), enc...), nil
}

func (kobaraImai) Decrypt(priv *CCA2PrivateKey, ct []byte) ([]byte, error) {
	msg, err := kobaraImaiDecrypt(priv, ct)
	if err != nil {
		return nil, decryptionFailure("kobara-imai", err)
	}
	return msg, nil
}

func kobaraImaiDecrypt(priv *CCA2PrivateKey, ct []byte) ([]byte, error) {
	nBytes := ciphertextBytes(priv.N)
	if len(ct) < nBytes {
		return nil, errShortCiphertext
	}
	t := priv.T()
	c2Len := priv.Digest.Size()
	c4Len := priv.K >> 3
	c5Len := conversions.MaxEncodableBits(priv.N, t) >> 3
	c6 := ct[:len(ct)-nBytes]

	c4Vec, z, _, err := splitPrimitive(priv, ct[len(c6):])
	if err != nil {
		return nil, err
	}
	c4 := c4Vec.Bytes()[:c4Len]
	c5, err := conversions.Decode(priv.N, t, z)
	if err != nil {
		return nil, err
	}
	if len(c5) > c5Len {
		return nil, fmt.Errorf("error vector rank exceeds %d bytes", c5Len)
	}
	c5 = append(make([]byte, c5Len-len(c5)), c5...)

	c6c5c4 := make([]byte, 0, len(c6)+c5Len+c4Len)
	c6c5c4 = append(c6c5c4, c6...)
	c6c5c4 = append(c6c5c4, c5...)
	c6c5c4 = append(c6c5c4, c4...)
	if len(c6c5c4) < c2Len+len(kobaraImaiConstant) {
		return nil, errShortCiphertext
	}
	c2, c1 := c6c5c4[:c2Len], c6c5c4[c2Len:]

	r, err := digest.Sum(priv.Digest, c1)
	if err != nil {
		return nil, err
	}
	xorInto(r, c2)
	mConst := keystream(r, len(c1))
	xorInto(mConst, c1)

	split := len(mConst) - len(kobaraImaiConstant)
	if subtle.ConstantTimeCompare(mConst[split:], kobaraImaiConstant) != 1 {
		return nil, errConstant
	}
	return unpad(bytes.Clone(mConst[:split]))
}
