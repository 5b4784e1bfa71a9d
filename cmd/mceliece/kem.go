package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/cli"
	"github.com/remiblancher/mceliece/internal/keyfile"
	"github.com/remiblancher/mceliece/pkg/kem"
	"github.com/remiblancher/mceliece/pkg/mceliece"
)

var kemCmd = &cobra.Command{
	Use:   "kem",
	Short: "Key encapsulation with Fujisaki keys",
	Long: `Establish a 32-byte shared secret with a mceliece-fujisaki key pair.

The shared secret is printed in hex on stdout; the encapsulation is
written to --out.

Examples:
  mceliece kem encap --key alice.pub --out ct.bin
  mceliece kem decap --key alice.key --in ct.bin`,
}

var kemEncapCmd = &cobra.Command{
	Use:   "encap",
	Short: "Encapsulate a shared secret for a public key",
	RunE:  runKEMEncap,
}

var kemDecapCmd = &cobra.Command{
	Use:   "decap",
	Short: "Recover a shared secret with a private key",
	RunE:  runKEMDecap,
}

var (
	kemKey    string
	kemInput  string
	kemOutput string
)

func init() {
	kemEncapCmd.Flags().StringVarP(&kemKey, "key", "k", "", "Public key file (required)")
	kemEncapCmd.Flags().StringVarP(&kemOutput, "out", "o", "", "Encapsulation output file (required)")
	_ = kemEncapCmd.MarkFlagRequired("key")
	_ = kemEncapCmd.MarkFlagRequired("out")

	kemDecapCmd.Flags().StringVarP(&kemKey, "key", "k", "", "Private key file (required)")
	kemDecapCmd.Flags().StringVarP(&kemInput, "in", "i", "-", "Encapsulation file (- for stdin)")
	_ = kemDecapCmd.MarkFlagRequired("key")

	kemCmd.AddCommand(kemEncapCmd)
	kemCmd.AddCommand(kemDecapCmd)
}

func kemScheme(alg mceliece.AlgorithmID, params mceliece.Parameters) (*kem.Scheme, error) {
	if alg != mceliece.AlgMcElieceFujisaki {
		return nil, fmt.Errorf("%w: kem needs a %s key, got %s", keyfile.ErrAlgorithmMismatch, mceliece.AlgMcElieceFujisaki, alg)
	}
	return kem.NewScheme(params)
}

func runKEMEncap(cmd *cobra.Command, args []string) error {
	pub, err := keyfile.LoadPublicKey(kemKey)
	if err != nil {
		return err
	}
	scheme, err := kemScheme(pub.Algorithm, pub.Params)
	if err != nil {
		return err
	}
	pk, err := scheme.UnmarshalBinaryPublicKey(pub.CCA2.MarshalBinary())
	if err != nil {
		return err
	}

	ct, ss, err := scheme.Encapsulate(pk)
	if auditErr := audit.LogKEMEncapsulate(scheme.Name(), pub.Fingerprint(), err == nil); auditErr != nil && err == nil {
		return auditErr
	}
	if err != nil {
		return fmt.Errorf("encapsulation failed: %w", err)
	}
	if err := cli.WriteOutput(kemOutput, cmd.OutOrStdout(), ct); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ss))
	return nil
}

func runKEMDecap(cmd *cobra.Command, args []string) error {
	priv, err := keyfile.LoadPrivateKey(kemKey)
	if err != nil {
		return err
	}
	scheme, err := kemScheme(priv.Algorithm, priv.Params)
	if err != nil {
		return err
	}
	sk, err := scheme.UnmarshalBinaryPrivateKey(priv.CCA2.MarshalBinary())
	if err != nil {
		return err
	}
	ct, err := cli.ReadInput(kemInput, cmd.InOrStdin())
	if err != nil {
		return err
	}

	fp := ""
	if pub, err := priv.Public(); err == nil {
		fp = pub.Fingerprint()
	}
	ss, err := scheme.Decapsulate(sk, ct)
	if auditErr := audit.LogKEMDecapsulate(scheme.Name(), fp, err == nil); auditErr != nil && err == nil {
		return auditErr
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ss))
	return nil
}
