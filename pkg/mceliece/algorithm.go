// Package mceliece implements the McEliece public-key cryptosystem over
// binary Goppa codes: key generation, the raw CPA-secure cipher and the
// CCA2-secure conversions of Fujisaki-Okamoto, Pointcheval and
// Kobara-Imai.
//
// Randomness is always passed in explicitly as an io.Reader; a nil reader
// means crypto/rand. Keys are immutable after construction and safe for
// concurrent use. Every decryption failure is reported as ErrDecryption.
//
// Syndrome decoding and padding checks are not constant time. Do not expose
// decryption to an attacker who can measure its duration precisely.
package mceliece

import (
	"encoding/asn1"
	"fmt"
	"sort"
)

// AlgorithmID identifies a McEliece variant.
type AlgorithmID string

// Supported variants.
const (
	AlgMcEliece            AlgorithmID = "mceliece"
	AlgMcElieceFujisaki    AlgorithmID = "mceliece-fujisaki"
	AlgMcEliecePointcheval AlgorithmID = "mceliece-pointcheval"
	AlgMcElieceKobaraImai  AlgorithmID = "mceliece-kobara-imai"
)

// AlgorithmType separates the raw scheme from the CCA2 conversions, which
// use different key types.
type AlgorithmType int

const (
	TypeUnknown AlgorithmType = iota
	TypeCPA
	TypeCCA2
)

// OIDs of the McEliece key types.
var (
	OIDMcEliece     = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 8301, 3, 1, 3, 4, 1}
	OIDMcElieceCCA2 = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 8301, 3, 1, 3, 4, 2}
)

type algorithmInfo struct {
	Type        AlgorithmType
	OID         asn1.ObjectIdentifier
	Conversion  Conversion
	Description string
}

var algorithms = map[AlgorithmID]algorithmInfo{
	AlgMcEliece: {
		Type:        TypeCPA,
		OID:         OIDMcEliece,
		Description: "McEliece (raw, CPA only)",
	},
	AlgMcElieceFujisaki: {
		Type:        TypeCCA2,
		OID:         OIDMcElieceCCA2,
		Conversion:  Fujisaki,
		Description: "McEliece with the Fujisaki-Okamoto conversion",
	},
	AlgMcEliecePointcheval: {
		Type:        TypeCCA2,
		OID:         OIDMcElieceCCA2,
		Conversion:  Pointcheval,
		Description: "McEliece with the Pointcheval conversion",
	},
	AlgMcElieceKobaraImai: {
		Type:        TypeCCA2,
		OID:         OIDMcElieceCCA2,
		Conversion:  KobaraImai,
		Description: "McEliece with the Kobara-Imai gamma conversion",
	},
}

// IsValid returns true if the algorithm is recognized.
func (a AlgorithmID) IsValid() bool {
	_, ok := algorithms[a]
	return ok
}

// Type returns the algorithm type.
func (a AlgorithmID) Type() AlgorithmType {
	if info, ok := algorithms[a]; ok {
		return info.Type
	}
	return TypeUnknown
}

// IsCCA2 returns true for the CCA2 conversions.
func (a AlgorithmID) IsCCA2() bool {
	return a.Type() == TypeCCA2
}

// OID returns the key-type OID for this algorithm.
func (a AlgorithmID) OID() asn1.ObjectIdentifier {
	if info, ok := algorithms[a]; ok {
		return info.OID
	}
	return nil
}

// Conversion returns the CCA2 conversion, or nil for the raw scheme.
func (a AlgorithmID) Conversion() Conversion {
	return algorithms[a].Conversion
}

// Description returns a human-readable description of the algorithm.
func (a AlgorithmID) Description() string {
	if info, ok := algorithms[a]; ok {
		return info.Description
	}
	return "Unknown algorithm"
}

// String returns the algorithm identifier as a string.
func (a AlgorithmID) String() string {
	return string(a)
}

// ParseAlgorithm parses a string into an AlgorithmID.
func ParseAlgorithm(s string) (AlgorithmID, error) {
	alg := AlgorithmID(s)
	if !alg.IsValid() {
		return "", fmt.Errorf("unknown algorithm: %s", s)
	}
	return alg, nil
}

// Algorithms returns all supported algorithm IDs in sorted order.
func Algorithms() []AlgorithmID {
	out := make([]AlgorithmID, 0, len(algorithms))
	for a := range algorithms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
