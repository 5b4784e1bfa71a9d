// Package profile loads named McEliece parameter sets from YAML.
//
// A profile fixes the algorithm, the code parameters (m, t), the field
// polynomial and, for the CCA2 conversions, the digest. Builtin profiles
// are embedded from the profiles directory; any other YAML file can be
// loaded by path.
package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// Profile is a named parameter set.
type Profile struct {
	Name        string
	Description string
	Algorithm   mceliece.AlgorithmID
	M           int
	T           int
	// FieldPoly of zero selects the default irreducible polynomial.
	FieldPoly uint64
	Digest    digest.Name
}

// Parameters returns the validated McEliece parameters of the profile.
func (p *Profile) Parameters() (mceliece.Parameters, error) {
	params := mceliece.Parameters{M: p.M, T: p.T, FieldPoly: p.FieldPoly, Digest: p.Digest}
	if err := params.Validate(); err != nil {
		return mceliece.Parameters{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return params, nil
}

// Validate checks the profile fields and its parameters.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if !p.Algorithm.IsValid() {
		return fmt.Errorf("profile %s: unknown algorithm %q", p.Name, p.Algorithm)
	}
	if p.Digest != "" && !p.Algorithm.IsCCA2() {
		return fmt.Errorf("profile %s: digest is only used by the CCA2 conversions", p.Name)
	}
	if _, err := p.Parameters(); err != nil {
		return err
	}
	if p.M > mceliece.MaxKeyGenDegree {
		return fmt.Errorf("profile %s: m=%d exceeds the key generation limit %d", p.Name, p.M, mceliece.MaxKeyGenDegree)
	}
	return nil
}

// String renders the profile on one line.
func (p *Profile) String() string {
	return fmt.Sprintf("%s (%s, m=%d t=%d)", p.Name, p.Algorithm, p.M, p.T)
}

func parseFieldPoly(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid field_poly %q: %w", s, err)
	}
	return v, nil
}

func formatFieldPoly(v uint64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%#x", v)
}
