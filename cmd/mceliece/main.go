// Command mceliece generates McEliece keys and encrypts and decrypts
// messages with the raw cipher or one of its CCA2 conversions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/audit"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = audit.Close()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mceliece",
	Short: "McEliece public-key encryption over binary Goppa codes",
	Long: `mceliece is a command-line tool for the McEliece cryptosystem.

Supported algorithms:
  mceliece              - Raw McEliece (CPA secure only, bounded message size)
  mceliece-fujisaki     - Fujisaki-Okamoto CCA2 conversion
  mceliece-pointcheval  - Pointcheval CCA2 conversion
  mceliece-kobara-imai  - Kobara-Imai gamma CCA2 conversion

Examples:
  # Generate a key pair from a builtin profile
  mceliece key gen --profile cca2/fujisaki --out alice.key --pub-out alice.pub

  # Encrypt and decrypt a file
  mceliece encrypt --key alice.pub --in secret.txt --out secret.msg
  mceliece decrypt --key alice.key --in secret.msg --out secret.txt

  # Start the REST API
  mceliece serve --port 8443`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for audit log path from environment if not set via flag
		if auditLogPath == "" {
			auditLogPath = os.Getenv("MCELIECE_AUDIT_LOG")
		}

		// Initialize audit logging
		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Close audit log
		return audit.Close()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set MCELIECE_AUDIT_LOG env var)")

	rootCmd.AddCommand(keyCmd)     // mceliece key ...
	rootCmd.AddCommand(profileCmd) // mceliece profile ...
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(kemCmd) // mceliece kem ...
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(serveCmd)
}
