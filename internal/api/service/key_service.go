package service

import (
	"context"
	"encoding/pem"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/internal/profile"
	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// KeyService provides key operations for the REST API.
type KeyService struct {
	random io.Reader
}

// NewKeyService creates a new KeyService. A nil random uses crypto/rand.
func NewKeyService(random io.Reader) *KeyService {
	return &KeyService{random: random}
}

// Generate creates a key pair from a builtin profile or explicit parameters.
func (s *KeyService) Generate(ctx context.Context, req *dto.KeyGenerateRequest) (*dto.KeyGenerateResponse, error) {
	alg, params, profName, err := resolveKeySpec(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pub, priv, err := keyfile.GenerateKey(s.random, alg, params, nil)
	if err != nil {
		_ = audit.LogKeyGenerated("", string(alg), params.String(), profName, "", false)
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	pubPEM, err := keyfile.MarshalPublicKey(pub)
	if err != nil {
		return nil, err
	}
	privPEM, err := keyfile.MarshalPrivateKey(priv)
	if err != nil {
		return nil, err
	}

	fp := pub.Fingerprint()
	if err := audit.LogKeyGenerated("", string(alg), params.String(), profName, fp, true); err != nil {
		return nil, err
	}

	return &dto.KeyGenerateResponse{
		PublicKey:   string(pubPEM),
		PrivateKey:  string(privPEM),
		Algorithm:   algorithmInfo(alg),
		Params:      paramsInfo(alg, params),
		Fingerprint: fp,
	}, nil
}

// resolveKeySpec turns a request into an algorithm and validated
// parameters. Only builtin profiles are accepted; the API never reads
// profile files from disk.
func resolveKeySpec(req *dto.KeyGenerateRequest) (mceliece.AlgorithmID, mceliece.Parameters, string, error) {
	if req.Profile != "" {
		all, err := profile.Builtin()
		if err != nil {
			return "", mceliece.Parameters{}, "", err
		}
		p, ok := all[req.Profile]
		if !ok {
			return "", mceliece.Parameters{}, "", fmt.Errorf("%w: %s", profile.ErrNotFound, req.Profile)
		}
		params, err := p.Parameters()
		if err != nil {
			return "", mceliece.Parameters{}, "", err
		}
		return p.Algorithm, params, p.Name, nil
	}

	if req.Algorithm == "" {
		return "", mceliece.Parameters{}, "", invalidInput("profile or algorithm is required")
	}
	alg, err := mceliece.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return "", mceliece.Parameters{}, "", invalidInput("%v", err)
	}

	params := mceliece.DefaultParameters()
	if req.M != 0 || req.T != 0 {
		params = mceliece.Parameters{M: req.M, T: req.T}
	}
	if req.FieldPoly != "" {
		poly, err := strconv.ParseUint(strings.TrimSpace(req.FieldPoly), 0, 64)
		if err != nil {
			return "", mceliece.Parameters{}, "", invalidInput("invalid field_poly %q", req.FieldPoly)
		}
		params.FieldPoly = poly
	}
	if req.Digest != "" {
		if !alg.IsCCA2() {
			return "", mceliece.Parameters{}, "", invalidInput("digest is only used by the CCA2 conversions")
		}
		d, err := digest.Parse(req.Digest)
		if err != nil {
			return "", mceliece.Parameters{}, "", invalidInput("%v", err)
		}
		params.Digest = d
	}
	if err := params.Validate(); err != nil {
		return "", mceliece.Parameters{}, "", err
	}
	return alg, params, "", nil
}

// Info describes a PEM-armored public or private key.
func (s *KeyService) Info(ctx context.Context, req *dto.KeyInfoRequest) (*dto.KeyInfoResponse, error) {
	block, _ := pem.Decode([]byte(req.Key))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", keyfile.ErrInvalidFormat)
	}

	var (
		pub *keyfile.PublicKey
		typ string
		err error
	)
	switch block.Type {
	case keyfile.BlockPublicKey:
		typ = "public"
		pub, err = keyfile.ParsePublicKey([]byte(req.Key))
	case keyfile.BlockPrivateKey:
		typ = "private"
		var priv *keyfile.PrivateKey
		priv, err = keyfile.ParsePrivateKey([]byte(req.Key))
		if err == nil {
			pub, err = priv.Public()
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", keyfile.ErrInvalidFormat, block.Type)
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.KeyInfoResponse{
		Type:        typ,
		Algorithm:   algorithmInfo(pub.Algorithm),
		Params:      paramsInfo(pub.Algorithm, pub.Params),
		Fingerprint: pub.Fingerprint(),
	}
	if limit := pub.MaxPlainTextSize(); limit >= 0 {
		resp.MaxPlaintextSize = &limit
	}
	return resp, nil
}
