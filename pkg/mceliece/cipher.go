package mceliece

import (
	"errors"
	"fmt"
	"io"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/goppa"
)

// paddingMarker terminates the message inside the padded block.
const paddingMarker = 0x01

var errBadPadding = errors.New("mceliece: bad padding")

// Encrypt encrypts msg with the raw scheme: c = m*G + z for a random error
// vector z of weight t. msg must not exceed pub.MaxPlainTextSize() bytes.
// The raw scheme is only CPA secure; use a Conversion for anything else.
func Encrypt(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	k := pub.K()
	if len(msg) > pub.MaxPlainTextSize() {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrMessageTooLong, len(msg), pub.MaxPlainTextSize())
	}
	m, err := gf2.VectorFromBytes(k, pad(msg, (k+7)/8))
	if err != nil {
		return nil, err
	}
	z, err := gf2.NewRandomWeightVector(pub.N, pub.T, randutil.Reader(random))
	if err != nil {
		return nil, err
	}
	return pub.G.LeftMultiply(m).Add(z).Bytes(), nil
}

// Decrypt reverses Encrypt. A ciphertext of the wrong length is rejected
// with ErrInvalidCiphertextSize; every other failure is ErrDecryption.
func Decrypt(priv *PrivateKey, ct []byte) ([]byte, error) {
	if len(ct) != ciphertextBytes(priv.N) {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidCiphertextSize, len(ct), ciphertextBytes(priv.N))
	}
	c, err := gf2.VectorFromBytes(priv.N, ct)
	if err != nil {
		return nil, decryptionFailure("decrypt", err)
	}

	// P = P1 * P2, so c*P^-1 is a codeword of H plus a permuted error.
	p := priv.P1.Compose(priv.P2)
	cPInv := c.Permute(p.Inverse())
	e, err := goppa.SyndromeDecode(priv.H.MultiplyVector(cPInv), priv.Field, priv.Goppa, priv.QInv)
	if err != nil {
		return nil, decryptionFailure("decrypt", err)
	}
	mSG := cPInv.Add(e).Permute(priv.P1)
	m := priv.SInv.LeftMultiply(mSG.ExtractRight(priv.K))

	msg, err := unpad(m.Bytes())
	if err != nil {
		return nil, decryptionFailure("decrypt", err)
	}
	return msg, nil
}

// encryptPrimitive computes [m*G | m] + z for the short generator G.
func encryptPrimitive(pub *CCA2PublicKey, m, z *gf2.Vector) *gf2.Vector {
	return pub.G.LeftMultiplyLeftCompactForm(m).Add(z)
}

// decryptPrimitive recovers the message vector m (k bits) and the error
// vector z from c = [m*G | m] + z.
func decryptPrimitive(priv *CCA2PrivateKey, c *gf2.Vector) (m, z *gf2.Vector, err error) {
	cPInv := c.Permute(priv.P.Inverse())
	e, err := goppa.SyndromeDecode(priv.H.MultiplyVector(cPInv), priv.Field, priv.Goppa, priv.QInv)
	if err != nil {
		return nil, nil, err
	}
	mG := cPInv.Add(e).Permute(priv.P)
	return mG.ExtractRight(priv.K), e.Permute(priv.P), nil
}

// pad returns msg || 0x01 zero-filled to size bytes.
func pad(msg []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, msg)
	out[len(msg)] = paddingMarker
	return out
}

// unpad strips the trailing zeros and the marker byte.
func unpad(b []byte) ([]byte, error) {
	i := len(b) - 1
	for i >= 0 && b[i] == 0 {
		i--
	}
	if i < 0 || b[i] != paddingMarker {
		return nil, errBadPadding
	}
	return b[:i], nil
}
