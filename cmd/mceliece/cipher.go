package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/cli"
	"github.com/remiblancher/mceliece/internal/keyfile"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a message for a public key",
	Long: `Encrypt a message with the algorithm of the recipient key.

The raw cipher is limited to the key's maximum plaintext size; the CCA2
conversions accept messages of any length. By default the ciphertext is
written as a PEM "MCELIECE MESSAGE" block.

Environment variables:
  MCELIECE_KEY  Key file used when --key is not given

Examples:
  mceliece encrypt --key alice.pub --in note.txt --out note.msg
  echo -n hello | mceliece encrypt --key alice.pub --format raw > hello.bin`,
	RunE: runEncrypt,
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a message with a private key",
	Long: `Decrypt a message produced by "mceliece encrypt".

Every decryption failure is reported the same way, whatever its cause.

Examples:
  mceliece decrypt --key alice.key --in note.msg --out note.txt
  mceliece decrypt --key alice.key --format raw --in hello.bin`,
	RunE: runDecrypt,
}

var (
	cipherKey    string
	cipherInput  string
	cipherOutput string
	cipherFormat string
)

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().StringVarP(&cipherKey, "key", "k", "", "Key file (or set MCELIECE_KEY env var)")
		c.Flags().StringVarP(&cipherInput, "in", "i", "-", "Input file (- for stdin)")
		c.Flags().StringVarP(&cipherOutput, "out", "o", "", "Output file (default: stdout)")
		c.Flags().StringVar(&cipherFormat, "format", "pem", "Ciphertext format: pem, raw")
	}
}

func cipherKeyPath() (string, error) {
	path := cli.FirstNonEmpty(cipherKey, os.Getenv("MCELIECE_KEY"))
	if path == "" {
		return "", fmt.Errorf("--key or MCELIECE_KEY is required")
	}
	return path, nil
}

func checkCipherFormat() error {
	switch cipherFormat {
	case "pem", "raw":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use pem or raw)", cipherFormat)
	}
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	if err := checkCipherFormat(); err != nil {
		return err
	}
	path, err := cipherKeyPath()
	if err != nil {
		return err
	}
	pub, err := keyfile.LoadPublicKey(path)
	if err != nil {
		return err
	}
	msg, err := cli.ReadInput(cipherInput, cmd.InOrStdin())
	if err != nil {
		return err
	}

	alg := string(pub.Algorithm)
	fp := pub.Fingerprint()
	ct, err := pub.Encrypt(nil, msg)
	if err != nil {
		_ = audit.LogEncrypt(alg, fp, len(msg), 0, false)
		return fmt.Errorf("encryption failed: %w", err)
	}
	if err := audit.LogEncrypt(alg, fp, len(msg), len(ct), true); err != nil {
		return err
	}

	out := ct
	if cipherFormat == "pem" {
		if out, err = keyfile.MarshalMessage(&keyfile.Message{Algorithm: pub.Algorithm, Ciphertext: ct}); err != nil {
			return err
		}
	}
	return cli.WriteOutput(cipherOutput, cmd.OutOrStdout(), out)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	if err := checkCipherFormat(); err != nil {
		return err
	}
	path, err := cipherKeyPath()
	if err != nil {
		return err
	}
	priv, err := keyfile.LoadPrivateKey(path)
	if err != nil {
		return err
	}
	data, err := cli.ReadInput(cipherInput, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ct := data
	if cipherFormat == "pem" {
		m, err := keyfile.ParseMessage(data)
		if err != nil {
			return err
		}
		if err := priv.CheckAlgorithm(m.Algorithm); err != nil {
			return err
		}
		ct = m.Ciphertext
	}

	fp := ""
	if pub, err := priv.Public(); err == nil {
		fp = pub.Fingerprint()
	}
	pt, err := priv.Decrypt(ct)
	if auditErr := audit.LogDecrypt(string(priv.Algorithm), fp, len(ct), err == nil); auditErr != nil && err == nil {
		return auditErr
	}
	if err != nil {
		return err
	}
	return cli.WriteOutput(cipherOutput, cmd.OutOrStdout(), pt)
}
