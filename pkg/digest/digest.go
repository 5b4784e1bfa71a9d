// Package digest resolves message digest names to hash constructors.
package digest

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is offered for compatibility with existing keys
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownDigest is returned for names that are not registered.
var ErrUnknownDigest = errors.New("digest: unknown digest")

// Name identifies a digest algorithm.
type Name string

// Registered digests.
const (
	SHA1       Name = "SHA-1"
	SHA224     Name = "SHA-224"
	SHA256     Name = "SHA-256"
	SHA384     Name = "SHA-384"
	SHA512     Name = "SHA-512"
	SHA3_256   Name = "SHA3-256"
	SHA3_512   Name = "SHA3-512"
	BLAKE2b256 Name = "BLAKE2b-256"
	BLAKE2b512 Name = "BLAKE2b-512"
)

// Default is used when no digest is configured.
const Default = SHA256

type info struct {
	size int
	new  func() hash.Hash
}

var registry = map[Name]info{
	SHA1:       {sha1.Size, sha1.New},
	SHA224:     {sha256.Size224, sha256.New224},
	SHA256:     {sha256.Size, sha256.New},
	SHA384:     {sha512.Size384, sha512.New384},
	SHA512:     {sha512.Size, sha512.New},
	SHA3_256:   {32, func() hash.Hash { return sha3.New256() }},
	SHA3_512:   {64, func() hash.Hash { return sha3.New512() }},
	BLAKE2b256: {blake2b.Size256, mustBlake2b(blake2b.New256)},
	BLAKE2b512: {blake2b.Size, mustBlake2b(blake2b.New512)},
}

// Unkeyed BLAKE2b constructors only fail for oversized keys.
func mustBlake2b(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// Parse normalizes a digest name. Lookup is case-insensitive and accepts
// names without the dash, such as "sha256" or "sha3256".
func Parse(s string) (Name, error) {
	key := canonical(s)
	for name := range registry {
		if canonical(string(name)) == key {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDigest, s)
}

func canonical(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

// IsValid reports whether n is a registered digest.
func (n Name) IsValid() bool {
	_, ok := registry[n]
	return ok
}

// Size returns the output length in bytes.
func (n Name) Size() int {
	return registry[n].size
}

// New returns a fresh hash for n.
func (n Name) New() (hash.Hash, error) {
	i, ok := registry[n]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, string(n))
	}
	return i.new(), nil
}

// String returns the canonical name.
func (n Name) String() string { return string(n) }

// Sum hashes the concatenation of parts with the named digest.
func Sum(n Name, parts ...[]byte) ([]byte, error) {
	h, err := n.New()
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil), nil
}

// Names returns the registered names in sorted order.
func Names() []Name {
	out := make([]Name, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
