package mceliece

import (
	"errors"
	"fmt"
	"io"

	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/gf2"
	"github.com/remiblancher/mceliece/pkg/gf2m"
	"github.com/remiblancher/mceliece/pkg/goppa"
)

// maxKeyGenAttempts caps the number of Goppa polynomials tried. Another
// polynomial is drawn only when the check matrix is rank deficient.
const maxKeyGenAttempts = 16

// Stage is a step of key generation, reported through OnStage.
type Stage int

const (
	StageGoppaPolynomial Stage = iota
	StageCheckMatrix
	StageSystematicForm
	StageSquareRootMatrix
	StageGeneratorMatrix
	StageDone
)

// StageCount is the number of stages reported by a successful run.
const StageCount = int(StageDone) + 1

var stageNames = [...]string{
	"Goppa polynomial",
	"check matrix",
	"systematic form",
	"square-root matrix",
	"generator matrix",
	"done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// KeyGenerator generates McEliece key pairs.
type KeyGenerator struct {
	Params Parameters
	// Random is the randomness source. Nil means crypto/rand.
	Random io.Reader
	// OnStage, if set, is called as each stage starts.
	OnStage func(Stage)
}

// GenerateKeyPair generates a key pair of the raw scheme with the given
// parameters.
func GenerateKeyPair(random io.Reader, params Parameters) (*PublicKey, *PrivateKey, error) {
	return (&KeyGenerator{Params: params, Random: random}).GenerateKeyPair()
}

// GenerateCCA2KeyPair generates a key pair for the CCA2 conversions.
func GenerateCCA2KeyPair(random io.Reader, params Parameters) (*CCA2PublicKey, *CCA2PrivateKey, error) {
	return (&KeyGenerator{Params: params, Random: random}).GenerateCCA2KeyPair()
}

// code is the part of key generation shared by both schemes.
type code struct {
	field *gf2m.Field
	goppa *gf2m.Polynomial
	h     *gf2.Matrix
	sf    *goppa.SystematicForm
	qInv  []*gf2m.Polynomial
}

func (g *KeyGenerator) stage(s Stage) {
	if g.OnStage != nil {
		g.OnStage(s)
	}
}

func (g *KeyGenerator) generateCode(r io.Reader) (*code, error) {
	if err := g.Params.validateForKeyGen(); err != nil {
		return nil, err
	}
	field, err := g.Params.Field()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		g.stage(StageGoppaPolynomial)
		poly, err := gf2m.NewRandomIrreduciblePolynomial(field, g.Params.T, r)
		if err != nil {
			return nil, fmt.Errorf("goppa polynomial: %w", err)
		}

		g.stage(StageCheckMatrix)
		h := goppa.CanonicalCheckMatrix(field, poly)

		g.stage(StageSystematicForm)
		sf, err := goppa.ComputeSystematicForm(h, r)
		if errors.Is(err, gf2.ErrRankDeficient) {
			continue
		}
		if err != nil {
			return nil, err
		}

		g.stage(StageSquareRootMatrix)
		ring, err := gf2m.NewRing(field, poly)
		if err != nil {
			return nil, fmt.Errorf("square-root matrix: %w", err)
		}
		return &code{field: field, goppa: poly, h: h, sf: sf, qInv: ring.SquareRootMatrix()}, nil
	}
	return nil, ErrKeyGenExhausted
}

// GenerateKeyPair builds a Goppa code, scrambles its systematic generator
// with a random invertible S and a random permutation P2, and returns
// G = S * G' * P2 as the public key.
func (g *KeyGenerator) GenerateKeyPair() (*PublicKey, *PrivateKey, error) {
	r := randutil.Reader(g.Random)
	c, err := g.generateCode(r)
	if err != nil {
		return nil, nil, err
	}

	g.stage(StageGeneratorMatrix)
	shortG := c.sf.Second.Transpose()
	gPrime := shortG.ExtendLeftCompactForm()
	k := shortG.Rows()
	n := c.field.Size()

	s, sInv, err := gf2.NewRandomRegularMatrixAndInverse(k, r)
	if err != nil {
		return nil, nil, fmt.Errorf("scrambling matrix: %w", err)
	}
	p2, err := gf2.NewRandomPermutation(n, r)
	if err != nil {
		return nil, nil, fmt.Errorf("permutation: %w", err)
	}
	pubG := s.Multiply(gPrime).PermuteColumns(p2)
	g.stage(StageDone)

	pub := &PublicKey{N: n, T: g.Params.T, G: pubG}
	priv := &PrivateKey{
		N: n, K: k, Field: c.field, Goppa: c.goppa,
		P1: c.sf.Perm, P2: p2, SInv: sInv, H: c.h, QInv: c.qInv,
	}
	return pub, priv, nil
}

// GenerateCCA2KeyPair builds a Goppa code and publishes its short
// systematic generator. The CCA2 conversions provide the masking that S and
// P2 give the raw scheme.
func (g *KeyGenerator) GenerateCCA2KeyPair() (*CCA2PublicKey, *CCA2PrivateKey, error) {
	r := randutil.Reader(g.Random)
	c, err := g.generateCode(r)
	if err != nil {
		return nil, nil, err
	}

	g.stage(StageGeneratorMatrix)
	shortG := c.sf.Second.Transpose()
	n := c.field.Size()
	d := g.Params.DigestName()
	g.stage(StageDone)

	pub := &CCA2PublicKey{N: n, T: g.Params.T, G: shortG, Digest: d}
	priv := &CCA2PrivateKey{
		N: n, K: shortG.Rows(), Field: c.field, Goppa: c.goppa,
		P: c.sf.Perm, Digest: d, H: c.h, QInv: c.qInv,
	}
	return pub, priv, nil
}
