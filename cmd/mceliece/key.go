package main

import (
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/cli"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/internal/profile"
	"github.com/remiblancher/mceliece/internal/randutil"
	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Key management commands",
	Long:  `Commands for generating and inspecting McEliece keys.`,
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a McEliece key pair",
	Long: `Generate a new McEliece key pair.

The parameters come either from a profile (builtin name or YAML file) or
from explicit flags. Without --profile and --algorithm the cca2/fujisaki
profile is used.

Examples:
  # From a builtin profile
  mceliece key gen --profile cca2/kobara-imai --out bob.key --pub-out bob.pub

  # Explicit parameters
  mceliece key gen --algorithm mceliece-pointcheval --m 12 --t 64 --digest sha3-512 --out k.key

  # Reproducible key for tests (never for real keys)
  mceliece key gen --profile test/small --seed 00112233 --out test.key`,
	RunE: runKeyGen,
}

var keyInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display information about a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeyInfo,
}

var keyPubCmd = &cobra.Command{
	Use:   "pub",
	Short: "Extract the public key from a private key",
	RunE:  runKeyPub,
}

var (
	keyGenProfile    string
	keyGenAlgorithm  string
	keyGenM          int
	keyGenT          int
	keyGenFieldPoly  string
	keyGenDigest     string
	keyGenOutput     string
	keyGenPubOutput  string
	keyGenSeed       string
	keyGenNoProgress bool

	keyPubKey    string
	keyPubOutput string
)

func init() {
	keyGenCmd.Flags().StringVarP(&keyGenProfile, "profile", "P", "", "Profile name or YAML file")
	keyGenCmd.Flags().StringVarP(&keyGenAlgorithm, "algorithm", "a", "", "Algorithm (mceliece, mceliece-fujisaki, mceliece-pointcheval, mceliece-kobara-imai)")
	keyGenCmd.Flags().IntVar(&keyGenM, "m", 0, "Field extension degree (default 11)")
	keyGenCmd.Flags().IntVar(&keyGenT, "t", 0, "Error-correcting capability (default 50)")
	keyGenCmd.Flags().StringVar(&keyGenFieldPoly, "field-poly", "", "Field polynomial in hex (default: smallest irreducible)")
	keyGenCmd.Flags().StringVar(&keyGenDigest, "digest", "", "Digest for the CCA2 conversions (default SHA-256)")
	keyGenCmd.Flags().StringVarP(&keyGenOutput, "out", "o", "", "Private key output file (required)")
	keyGenCmd.Flags().StringVar(&keyGenPubOutput, "pub-out", "", "Public key output file")
	keyGenCmd.Flags().StringVar(&keyGenSeed, "seed", "", "Hex seed for deterministic generation (testing only)")
	keyGenCmd.Flags().BoolVar(&keyGenNoProgress, "no-progress", false, "Do not draw a progress bar")
	_ = keyGenCmd.MarkFlagRequired("out")

	keyPubCmd.Flags().StringVarP(&keyPubKey, "key", "k", "", "Private key file (required)")
	keyPubCmd.Flags().StringVarP(&keyPubOutput, "out", "o", "", "Public key output file (default: stdout)")
	_ = keyPubCmd.MarkFlagRequired("key")

	keyCmd.AddCommand(keyGenCmd)
	keyCmd.AddCommand(keyInfoCmd)
	keyCmd.AddCommand(keyPubCmd)
}

// keyGenSpec builds the profile selected by the key gen flags.
func keyGenSpec() (*profile.Profile, string, error) {
	if keyGenProfile == "" && keyGenAlgorithm == "" {
		keyGenProfile = "cca2/fujisaki"
	}
	if keyGenProfile != "" {
		p, err := profile.Load(keyGenProfile)
		if err != nil {
			return nil, "", err
		}
		return p, p.Name, nil
	}

	alg, err := mceliece.ParseAlgorithm(keyGenAlgorithm)
	if err != nil {
		return nil, "", err
	}
	p := &profile.Profile{
		Name:      "custom",
		Algorithm: alg,
		M:         keyGenM,
		T:         keyGenT,
	}
	if p.M == 0 {
		p.M = mceliece.DefaultM
	}
	if p.T == 0 {
		p.T = mceliece.DefaultT
	}
	if keyGenFieldPoly != "" {
		poly, err := strconv.ParseUint(keyGenFieldPoly, 0, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --field-poly %q: %w", keyGenFieldPoly, err)
		}
		p.FieldPoly = poly
	}
	if keyGenDigest != "" {
		d, err := digest.Parse(keyGenDigest)
		if err != nil {
			return nil, "", err
		}
		p.Digest = d
	}
	if err := p.Validate(); err != nil {
		return nil, "", err
	}
	return p, "", nil
}

func runKeyGen(cmd *cobra.Command, args []string) error {
	prof, profName, err := keyGenSpec()
	if err != nil {
		return err
	}
	params, err := prof.Parameters()
	if err != nil {
		return err
	}

	var random io.Reader
	if keyGenSeed != "" {
		seed, err := hex.DecodeString(keyGenSeed)
		if err != nil {
			return fmt.Errorf("invalid --seed: %w", err)
		}
		cli.Warn(cmd.ErrOrStderr(), "Warning: deterministic key from --seed, do not use for real data")
		random = randutil.NewDeterministicReader(seed)
	}

	var onStage func(mceliece.Stage)
	finish := func() {}
	if !keyGenNoProgress {
		onStage, finish = cli.KeyGenProgress(cmd.ErrOrStderr(), "Generating "+string(prof.Algorithm))
	}

	pub, priv, err := keyfile.GenerateKey(random, prof.Algorithm, params, onStage)
	finish()
	if err != nil {
		_ = audit.LogKeyGenerated(keyGenOutput, string(prof.Algorithm), params.String(), profName, "", false)
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if err := keyfile.SavePrivateKey(keyGenOutput, priv); err != nil {
		return err
	}
	if keyGenPubOutput != "" {
		if err := keyfile.SavePublicKey(keyGenPubOutput, pub); err != nil {
			return err
		}
	}

	fp := pub.Fingerprint()
	if err := audit.LogKeyGenerated(keyGenOutput, string(prof.Algorithm), params.String(), profName, fp, true); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cli.Success(out, "Key pair generated")
	cli.Field(out, "Algorithm", prof.Algorithm)
	cli.Field(out, "Parameters", params)
	cli.Field(out, "Fingerprint", fp)
	cli.Field(out, "Private key", keyGenOutput)
	if keyGenPubOutput != "" {
		cli.Field(out, "Public key", keyGenPubOutput)
	}
	return nil
}

func runKeyInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return fmt.Errorf("%w: no PEM block in %s", keyfile.ErrInvalidFormat, args[0])
	}

	var (
		pub *keyfile.PublicKey
		typ string
	)
	switch block.Type {
	case keyfile.BlockPublicKey:
		typ = "public"
		pub, err = keyfile.ParsePublicKey(data)
	case keyfile.BlockPrivateKey:
		typ = "private"
		var priv *keyfile.PrivateKey
		if priv, err = keyfile.ParsePrivateKey(data); err == nil {
			pub, err = priv.Public()
		}
	default:
		return fmt.Errorf("%w: unexpected PEM block %q", keyfile.ErrInvalidFormat, block.Type)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key: %s\n", args[0])
	cli.Field(out, "Type", typ)
	cli.Field(out, "Algorithm", pub.Algorithm)
	cli.Field(out, "Description", pub.Algorithm.Description())
	cli.Field(out, "Parameters", pub.Params)
	cli.Field(out, "Field polynomial", fmt.Sprintf("%#x", pub.Params.Poly()))
	if pub.Algorithm.IsCCA2() {
		cli.Field(out, "Digest", pub.Params.DigestName())
		cli.Field(out, "Max plaintext", "unbounded")
	} else {
		cli.Field(out, "Max plaintext", fmt.Sprintf("%d bytes", pub.MaxPlainTextSize()))
	}
	cli.Field(out, "Fingerprint", pub.Fingerprint())
	return nil
}

func runKeyPub(cmd *cobra.Command, args []string) error {
	priv, err := keyfile.LoadPrivateKey(keyPubKey)
	if err != nil {
		return err
	}
	pub, err := priv.Public()
	if err != nil {
		return err
	}
	if keyPubOutput != "" {
		return keyfile.SavePublicKey(keyPubOutput, pub)
	}
	data, err := keyfile.MarshalPublicKey(pub)
	if err != nil {
		return err
	}
	return cli.WriteOutput("", cmd.OutOrStdout(), data)
}
