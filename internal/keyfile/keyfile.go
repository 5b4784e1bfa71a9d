// Package keyfile stores McEliece keys and ciphertexts on disk.
//
// Each object is a canonical CBOR envelope armored in a PEM block. The
// envelope names the algorithm and parameters so a key can be used without
// out-of-band configuration.
package keyfile

import (
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// PEM block types.
const (
	BlockPublicKey  = "MCELIECE PUBLIC KEY"
	BlockPrivateKey = "MCELIECE PRIVATE KEY"
	BlockMessage    = "MCELIECE MESSAGE"
)

// Version is the envelope version written by this package.
const Version = 1

const (
	kindPublic  = "public"
	kindPrivate = "private"
)

var (
	// ErrInvalidFormat is returned for data that is not a well-formed
	// envelope of the expected type.
	ErrInvalidFormat = errors.New("keyfile: invalid format")

	// ErrUnsupportedVersion is returned for envelopes of another version.
	ErrUnsupportedVersion = errors.New("keyfile: unsupported version")

	// ErrAlgorithmMismatch is returned when a key is used with an
	// algorithm of the other key type.
	ErrAlgorithmMismatch = errors.New("keyfile: algorithm mismatch")
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("keyfile: CBOR encoder: %v", err))
	}
	encMode = em
}

// ParamsInfo is the parameter record stored with each key.
type ParamsInfo struct {
	M         int    `cbor:"m"`
	T         int    `cbor:"t"`
	FieldPoly uint64 `cbor:"poly"`
	Digest    string `cbor:"digest,omitempty"`
}

func paramsInfo(p mceliece.Parameters) ParamsInfo {
	return ParamsInfo{M: p.M, T: p.T, FieldPoly: p.Poly(), Digest: string(p.DigestName())}
}

// Parameters converts the record back to validated parameters.
func (pi ParamsInfo) Parameters() (mceliece.Parameters, error) {
	p := mceliece.Parameters{M: pi.M, T: pi.T, FieldPoly: pi.FieldPoly, Digest: digest.Name(pi.Digest)}
	if err := p.Validate(); err != nil {
		return mceliece.Parameters{}, err
	}
	return p, nil
}

type keyEnvelope struct {
	V      int        `cbor:"v"`
	Alg    string     `cbor:"alg"`
	Kind   string     `cbor:"kind"`
	Params ParamsInfo `cbor:"params"`
	Key    []byte     `cbor:"key"`
}

type messageEnvelope struct {
	V   int    `cbor:"v"`
	Alg string `cbor:"alg"`
	CT  []byte `cbor:"ct"`
}

// PublicKey is a public key of any McEliece variant. Exactly one of Raw and
// CCA2 is set, matching Algorithm.
type PublicKey struct {
	Algorithm mceliece.AlgorithmID
	Params    mceliece.Parameters
	Raw       *mceliece.PublicKey
	CCA2      *mceliece.CCA2PublicKey
}

// PrivateKey is a private key of any McEliece variant.
type PrivateKey struct {
	Algorithm mceliece.AlgorithmID
	Params    mceliece.Parameters
	Raw       *mceliece.PrivateKey
	CCA2      *mceliece.CCA2PrivateKey
}

// GenerateKey generates a key pair for alg. onStage may be nil.
func GenerateKey(random io.Reader, alg mceliece.AlgorithmID, params mceliece.Parameters, onStage func(mceliece.Stage)) (*PublicKey, *PrivateKey, error) {
	if !alg.IsValid() {
		return nil, nil, fmt.Errorf("unknown algorithm: %s", alg)
	}
	g := &mceliece.KeyGenerator{Params: params, Random: random, OnStage: onStage}

	pub := &PublicKey{Algorithm: alg, Params: params}
	priv := &PrivateKey{Algorithm: alg, Params: params}
	var err error
	if alg.IsCCA2() {
		pub.CCA2, priv.CCA2, err = g.GenerateCCA2KeyPair()
	} else {
		pub.Raw, priv.Raw, err = g.GenerateKeyPair()
	}
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

func (k *PublicKey) binary() []byte {
	if k.CCA2 != nil {
		return k.CCA2.MarshalBinary()
	}
	return k.Raw.MarshalBinary()
}

// Fingerprint returns the hex SHA-256 of the binary key encoding.
func (k *PublicKey) Fingerprint() string {
	if k.CCA2 != nil {
		return hex.EncodeToString(k.CCA2.Fingerprint())
	}
	return hex.EncodeToString(k.Raw.Fingerprint())
}

// N returns the code length.
func (k *PublicKey) N() int { return k.Params.N() }

// MaxPlainTextSize returns the message limit, or -1 for the CCA2
// conversions, which accept any length.
func (k *PublicKey) MaxPlainTextSize() int {
	if k.Raw != nil {
		return k.Raw.MaxPlainTextSize()
	}
	return -1
}

// Encrypt encrypts msg with the key's algorithm.
func (k *PublicKey) Encrypt(random io.Reader, msg []byte) ([]byte, error) {
	if k.CCA2 != nil {
		return k.Algorithm.Conversion().Encrypt(random, k.CCA2, msg)
	}
	return mceliece.Encrypt(random, k.Raw, msg)
}

// Public returns the matching public key.
func (k *PrivateKey) Public() (*PublicKey, error) {
	pub := &PublicKey{Algorithm: k.Algorithm, Params: k.Params}
	var err error
	if k.CCA2 != nil {
		pub.CCA2, err = k.CCA2.Public()
	} else {
		pub.Raw, err = k.Raw.Public()
	}
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Decrypt decrypts ct with the key's algorithm.
func (k *PrivateKey) Decrypt(ct []byte) ([]byte, error) {
	if k.CCA2 != nil {
		return k.Algorithm.Conversion().Decrypt(k.CCA2, ct)
	}
	return mceliece.Decrypt(k.Raw, ct)
}

func (k *PrivateKey) binary() []byte {
	if k.CCA2 != nil {
		return k.CCA2.MarshalBinary()
	}
	return k.Raw.MarshalBinary()
}

// MarshalPublicKey encodes k as a PEM block.
func MarshalPublicKey(k *PublicKey) ([]byte, error) {
	return marshalKey(BlockPublicKey, kindPublic, k.Algorithm, k.Params, k.binary())
}

// MarshalPrivateKey encodes k as a PEM block.
func MarshalPrivateKey(k *PrivateKey) ([]byte, error) {
	return marshalKey(BlockPrivateKey, kindPrivate, k.Algorithm, k.Params, k.binary())
}

func marshalKey(blockType, kind string, alg mceliece.AlgorithmID, params mceliece.Parameters, key []byte) ([]byte, error) {
	data, err := encMode.Marshal(keyEnvelope{
		V:      Version,
		Alg:    string(alg),
		Kind:   kind,
		Params: paramsInfo(params),
		Key:    key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: data}), nil
}

func parseKeyEnvelope(data []byte, blockType, kind string) (*keyEnvelope, mceliece.AlgorithmID, mceliece.Parameters, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != blockType {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: no %s block found", ErrInvalidFormat, blockType)
	}
	var env keyEnvelope
	if err := cbor.Unmarshal(block.Bytes, &env); err != nil {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if env.V != Version {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.V)
	}
	if env.Kind != kind {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: kind %q, want %q", ErrInvalidFormat, env.Kind, kind)
	}
	alg, err := mceliece.ParseAlgorithm(env.Alg)
	if err != nil {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	params, err := env.Params.Parameters()
	if err != nil {
		return nil, "", mceliece.Parameters{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &env, alg, params, nil
}

func checkDims(params mceliece.Parameters, n, t int) error {
	if n != params.N() || t != params.T {
		return fmt.Errorf("%w: key has n=%d t=%d, envelope says %s", ErrInvalidFormat, n, t, params)
	}
	return nil
}

// ParsePublicKey decodes a key written by MarshalPublicKey.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	env, alg, params, err := parseKeyEnvelope(data, BlockPublicKey, kindPublic)
	if err != nil {
		return nil, err
	}
	k := &PublicKey{Algorithm: alg, Params: params}
	if alg.IsCCA2() {
		if k.CCA2, err = mceliece.UnmarshalCCA2PublicKey(env.Key); err != nil {
			return nil, err
		}
		if k.CCA2.Digest != params.DigestName() {
			return nil, fmt.Errorf("%w: digest %s, envelope says %s", ErrInvalidFormat, k.CCA2.Digest, params.DigestName())
		}
		if err := checkDims(params, k.CCA2.N, k.CCA2.T); err != nil {
			return nil, err
		}
		return k, nil
	}
	if k.Raw, err = mceliece.UnmarshalPublicKey(env.Key); err != nil {
		return nil, err
	}
	if err := checkDims(params, k.Raw.N, k.Raw.T); err != nil {
		return nil, err
	}
	return k, nil
}

// ParsePrivateKey decodes a key written by MarshalPrivateKey.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	env, alg, params, err := parseKeyEnvelope(data, BlockPrivateKey, kindPrivate)
	if err != nil {
		return nil, err
	}
	k := &PrivateKey{Algorithm: alg, Params: params}
	if alg.IsCCA2() {
		if k.CCA2, err = mceliece.UnmarshalCCA2PrivateKey(env.Key); err != nil {
			return nil, err
		}
		if err := checkDims(params, k.CCA2.N, k.CCA2.T()); err != nil {
			return nil, err
		}
		return k, nil
	}
	if k.Raw, err = mceliece.UnmarshalPrivateKey(env.Key); err != nil {
		return nil, err
	}
	if err := checkDims(params, k.Raw.N, k.Raw.T()); err != nil {
		return nil, err
	}
	return k, nil
}

// Message is an encrypted message together with its algorithm.
type Message struct {
	Algorithm  mceliece.AlgorithmID
	Ciphertext []byte
}

// MarshalMessage encodes m as a PEM block.
func MarshalMessage(m *Message) ([]byte, error) {
	data, err := encMode.Marshal(messageEnvelope{V: Version, Alg: string(m.Algorithm), CT: m.Ciphertext})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: BlockMessage, Bytes: data}), nil
}

// ParseMessage decodes a message written by MarshalMessage.
func ParseMessage(data []byte) (*Message, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != BlockMessage {
		return nil, fmt.Errorf("%w: no %s block found", ErrInvalidFormat, BlockMessage)
	}
	var env messageEnvelope
	if err := cbor.Unmarshal(block.Bytes, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if env.V != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.V)
	}
	alg, err := mceliece.ParseAlgorithm(env.Alg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &Message{Algorithm: alg, Ciphertext: env.CT}, nil
}

// CheckAlgorithm reports whether a message for alg can be decrypted by k.
func (k *PrivateKey) CheckAlgorithm(alg mceliece.AlgorithmID) error {
	if alg != k.Algorithm {
		return fmt.Errorf("%w: message uses %s, key is %s", ErrAlgorithmMismatch, alg, k.Algorithm)
	}
	return nil
}

// SavePublicKey writes k to path.
func SavePublicKey(path string, k *PublicKey) error {
	data, err := MarshalPublicKey(k)
	if err != nil {
		return err
	}
	return writeFile(path, data, 0644)
}

// SavePrivateKey writes k to path, readable by the owner only.
func SavePrivateKey(path string, k *PrivateKey) error {
	data, err := MarshalPrivateKey(k)
	if err != nil {
		return err
	}
	return writeFile(path, data, 0600)
}

// SaveMessage writes m to path.
func SaveMessage(path string, m *Message) error {
	data, err := MarshalMessage(m)
	if err != nil {
		return err
	}
	return writeFile(path, data, 0644)
}

// LoadPublicKey reads a public key from path. A private key file is
// accepted and its public half returned.
func LoadPublicKey(path string) (*PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if block, _ := pem.Decode(data); block != nil && block.Type == BlockPrivateKey {
		priv, err := ParsePrivateKey(data)
		if err != nil {
			return nil, err
		}
		return priv.Public()
	}
	return ParsePublicKey(data)
}

// LoadPrivateKey reads a private key from path.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return ParsePrivateKey(data)
}

// LoadMessage reads a message from path.
func LoadMessage(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return ParseMessage(data)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
