// Package kem exposes McEliece with the Fujisaki-Okamoto conversion as a
// circl kem.Scheme.
//
// Encapsulation encrypts a fresh 32-byte secret; the shared key is derived
// from that secret and the ciphertext with HKDF-SHA-256.
package kem

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"golang.org/x/crypto/hkdf"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

const (
	// SeedSize is the size of the seed for DeriveKeyPair.
	SeedSize = 32

	// EncapsulationSeedSize is the size of the seed for
	// EncapsulateDeterministically.
	EncapsulationSeedSize = 32

	// SharedKeySize is the size of the established shared key.
	SharedKeySize = 32

	// secretSize is the size of the encrypted secret.
	secretSize = 32
)

var hkdfInfo = []byte("mceliece-fujisaki kem shared key")

// Scheme is a kem.Scheme for one McEliece parameter set.
type Scheme struct {
	params mceliece.Parameters
	name   string

	publicKeySize  int
	privateKeySize int
	ciphertextSize int
}

var _ kem.Scheme = (*Scheme)(nil)

// NewScheme returns the scheme for params. Key generation limits apply.
func NewScheme(params mceliece.Parameters) (*Scheme, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.M > mceliece.MaxKeyGenDegree {
		return nil, fmt.Errorf("%w: m=%d exceeds %d", mceliece.ErrInvalidParameters, params.M, mceliece.MaxKeyGenDegree)
	}
	if params.Digest == "" {
		params.Digest = params.DigestName()
	}
	n, k, m, t := params.N(), params.K(), params.M, params.T
	digestLen := len(params.Digest)
	width := (m + 7) / 8

	return &Scheme{
		params: params,
		name:   fmt.Sprintf("McEliece-Fujisaki-%d-%d", n, t),
		// kind | n | t | digest | G (rows | cols | k rows of ceil((n-k)/8) bytes)
		publicKeySize: 1 + 4 + 4 + 1 + digestLen + 4 + 8 + k*((n-k+7)/8),
		// kind | n | k | m | poly | Goppa | P | digest
		privateKeySize: 1 + 4 + 4 + 4 + 8 + 4 + width*(t+1) + 4 + 4*(n+1) + 1 + digestLen,
		ciphertextSize: (n+7)/8 + secretSize,
	}, nil
}

// Parameters returns the McEliece parameters of the scheme.
func (s *Scheme) Parameters() mceliece.Parameters { return s.params }

func (s *Scheme) Name() string               { return s.name }
func (s *Scheme) PublicKeySize() int         { return s.publicKeySize }
func (s *Scheme) PrivateKeySize() int        { return s.privateKeySize }
func (s *Scheme) SeedSize() int              { return SeedSize }
func (s *Scheme) SharedKeySize() int         { return SharedKeySize }
func (s *Scheme) CiphertextSize() int        { return s.ciphertextSize }
func (s *Scheme) EncapsulationSeedSize() int { return EncapsulationSeedSize }

// GenerateKeyPair generates a key pair using crypto/rand.
func (s *Scheme) GenerateKeyPair() (kem.PublicKey, kem.PrivateKey, error) {
	return s.generate(rand.Reader)
}

// DeriveKeyPair derives a key pair from seed. Panics if seed is not of
// length SeedSize.
func (s *Scheme) DeriveKeyPair(seed []byte) (kem.PublicKey, kem.PrivateKey) {
	if len(seed) != SeedSize {
		panic(kem.ErrSeedSize)
	}
	pk, sk, err := s.generate(randutil.NewDeterministicReader(seed))
	if err != nil {
		panic(err)
	}
	return pk, sk
}

func (s *Scheme) generate(r io.Reader) (*PublicKey, *PrivateKey, error) {
	pub, priv, err := mceliece.GenerateCCA2KeyPair(r, s.params)
	if err != nil {
		return nil, nil, err
	}
	pk := &PublicKey{scheme: s, key: pub}
	return pk, &PrivateKey{scheme: s, key: priv, pub: pk}, nil
}

// Encapsulate generates a shared key for pk.
func (s *Scheme) Encapsulate(pk kem.PublicKey) (ct, ss []byte, err error) {
	seed := make([]byte, EncapsulationSeedSize)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, nil, err
	}
	return s.EncapsulateDeterministically(pk, seed)
}

// EncapsulateDeterministically generates a shared key for pk with all
// randomness drawn from seed.
func (s *Scheme) EncapsulateDeterministically(pk kem.PublicKey, seed []byte) (ct, ss []byte, err error) {
	if len(seed) != EncapsulationSeedSize {
		return nil, nil, kem.ErrSeedSize
	}
	pub, ok := pk.(*PublicKey)
	if !ok || pub.scheme.name != s.name {
		return nil, nil, kem.ErrTypeMismatch
	}

	r := randutil.NewDeterministicReader(seed)
	secret, err := randutil.Bytes(r, secretSize)
	if err != nil {
		return nil, nil, err
	}
	ct, err = mceliece.Fujisaki.Encrypt(r, pub.key, secret)
	if err != nil {
		return nil, nil, err
	}
	ss, err = deriveSharedKey(secret, ct)
	if err != nil {
		return nil, nil, err
	}
	return ct, ss, nil
}

// Decapsulate recovers the shared key from ct.
func (s *Scheme) Decapsulate(sk kem.PrivateKey, ct []byte) ([]byte, error) {
	if len(ct) != s.ciphertextSize {
		return nil, kem.ErrCiphertextSize
	}
	priv, ok := sk.(*PrivateKey)
	if !ok || priv.scheme.name != s.name {
		return nil, kem.ErrTypeMismatch
	}
	secret, err := mceliece.Fujisaki.Decrypt(priv.key, ct)
	if err != nil {
		return nil, err
	}
	return deriveSharedKey(secret, ct)
}

func deriveSharedKey(secret, ct []byte) ([]byte, error) {
	salt := sha256.Sum256(ct)
	ss := make([]byte, SharedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt[:], hkdfInfo), ss); err != nil {
		return nil, err
	}
	return ss, nil
}

// UnmarshalBinaryPublicKey decodes a public key of this scheme.
func (s *Scheme) UnmarshalBinaryPublicKey(buf []byte) (kem.PublicKey, error) {
	if len(buf) != s.publicKeySize {
		return nil, kem.ErrPubKeySize
	}
	pub, err := mceliece.UnmarshalCCA2PublicKey(buf)
	if err != nil {
		return nil, err
	}
	if !s.matches(pub.N, pub.T, pub.K()) || pub.Digest != s.params.Digest {
		return nil, kem.ErrPubKey
	}
	return &PublicKey{scheme: s, key: pub}, nil
}

// UnmarshalBinaryPrivateKey decodes a private key of this scheme.
func (s *Scheme) UnmarshalBinaryPrivateKey(buf []byte) (kem.PrivateKey, error) {
	if len(buf) != s.privateKeySize {
		return nil, kem.ErrPrivKeySize
	}
	priv, err := mceliece.UnmarshalCCA2PrivateKey(buf)
	if err != nil {
		return nil, err
	}
	if !s.matches(priv.N, priv.T(), priv.K) || priv.Digest != s.params.Digest {
		return nil, kem.ErrPrivKey
	}
	pub, err := priv.Public()
	if err != nil {
		return nil, kem.ErrPrivKey
	}
	pk := &PublicKey{scheme: s, key: pub}
	return &PrivateKey{scheme: s, key: priv, pub: pk}, nil
}

func (s *Scheme) matches(n, t, k int) bool {
	return n == s.params.N() && t == s.params.T && k == s.params.K()
}

// PublicKey is a kem.PublicKey.
type PublicKey struct {
	scheme *Scheme
	key    *mceliece.CCA2PublicKey
}

// Key returns the underlying McEliece key.
func (pk *PublicKey) Key() *mceliece.CCA2PublicKey { return pk.key }

func (pk *PublicKey) Scheme() kem.Scheme { return pk.scheme }

func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.key.MarshalBinary(), nil
}

func (pk *PublicKey) Equal(other kem.PublicKey) bool {
	oth, ok := other.(*PublicKey)
	if !ok {
		return false
	}
	return pk.key.Equal(oth.key)
}

// PrivateKey is a kem.PrivateKey.
type PrivateKey struct {
	scheme *Scheme
	key    *mceliece.CCA2PrivateKey
	pub    *PublicKey
}

// Key returns the underlying McEliece key.
func (sk *PrivateKey) Key() *mceliece.CCA2PrivateKey { return sk.key }

func (sk *PrivateKey) Scheme() kem.Scheme { return sk.scheme }

func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	return sk.key.MarshalBinary(), nil
}

func (sk *PrivateKey) Equal(other kem.PrivateKey) bool {
	oth, ok := other.(*PrivateKey)
	if !ok {
		return false
	}
	return sk.key.Equal(oth.key)
}

func (sk *PrivateKey) Public() kem.PublicKey { return sk.pub }
