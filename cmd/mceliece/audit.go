package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/mceliece/internal/audit"
	"github.com/remiblancher/mceliece/internal/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log management",
	Long: `Commands for managing and verifying audit logs.

The audit log provides a tamper-evident record of key generation,
encryption, decryption and KEM operations. Each event is chained to the
previous one using SHA-256 hashes.

Examples:
  # Verify audit log integrity
  mceliece audit verify --log /var/log/mceliece/audit.jsonl

  # Show last 10 events
  mceliece audit tail --log /var/log/mceliece/audit.jsonl -n 10`,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log integrity",
	Long: `Verify the cryptographic hash chain of an audit log file.

Each event in the log contains:
  - hash_prev: SHA-256 hash of the previous event
  - hash: SHA-256 hash of the current event

The chain starts with hash_prev="sha256:genesis" for the first event.`,
	RunE: runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent audit events",
	RunE:  runAuditTail,
}

var (
	auditLogFile  string
	auditTailNum  int
	auditShowJSON bool
)

func init() {
	auditVerifyCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditVerifyCmd.MarkFlagRequired("log")

	auditTailCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditTailCmd.MarkFlagRequired("log")
	auditTailCmd.Flags().IntVarP(&auditTailNum, "num", "n", 10, "Number of events to show")
	auditTailCmd.Flags().BoolVar(&auditShowJSON, "json", false, "Output as JSON")

	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying audit log: %s\n\n", auditLogFile)

	count, err := audit.VerifyChain(auditLogFile)
	if err != nil {
		cli.Failure(out, "VERIFICATION FAILED")
		fmt.Fprintf(out, "  Valid events: %d\n", count)
		fmt.Fprintf(out, "  Error: %s\n", err)
		return fmt.Errorf("audit log verification failed: %w", err)
	}

	cli.Success(out, "VERIFICATION PASSED")
	fmt.Fprintf(out, "  Total events: %d\n", count)
	fmt.Fprintf(out, "  Hash chain: %s\n", cli.FormatStatus("valid"))

	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(auditLogFile)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(data) == 0 {
		fmt.Fprintln(out, "Audit log is empty")
		return nil
	}

	// Collect all lines
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}

	// Get last N lines
	start := 0
	if len(lines) > auditTailNum {
		start = len(lines) - auditTailNum
	}
	lines = lines[start:]

	if auditShowJSON {
		fmt.Fprintln(out, "[")
		for i, line := range lines {
			if i > 0 {
				fmt.Fprintln(out, ",")
			}
			fmt.Fprint(out, line)
		}
		fmt.Fprintln(out, "\n]")
		return nil
	}

	// Pretty print
	for _, line := range lines {
		var event audit.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			fmt.Fprintf(out, "  [ERROR] %s\n", err)
			continue
		}

		printEvent(out, &event)
	}

	return nil
}

func printEvent(w io.Writer, e *audit.Event) {
	fmt.Fprintf(w, "[%s] %s %s\n", e.Timestamp, cli.FormatStatus(string(e.Result)), e.EventType)
	fmt.Fprintf(w, "    Actor:  %s@%s\n", e.Actor.ID, e.Actor.Host)

	if e.Object.Type != "" {
		fmt.Fprintf(w, "    Object: %s", e.Object.Type)
		if e.Object.Path != "" {
			fmt.Fprintf(w, " path=%s", e.Object.Path)
		}
		if e.Object.Fingerprint != "" {
			fmt.Fprintf(w, " fingerprint=%.16s", e.Object.Fingerprint)
		}
		fmt.Fprintln(w)
	}

	c := e.Context
	if c.Algorithm != "" || c.Profile != "" || c.Params != "" || c.Reason != "" {
		fmt.Fprint(w, "    Context:")
		if c.Algorithm != "" {
			fmt.Fprintf(w, " algorithm=%s", c.Algorithm)
		}
		if c.Profile != "" {
			fmt.Fprintf(w, " profile=%s", c.Profile)
		}
		if c.Params != "" {
			fmt.Fprintf(w, " params=%q", c.Params)
		}
		if c.MessageSize > 0 {
			fmt.Fprintf(w, " message_size=%d", c.MessageSize)
		}
		if c.CiphertextSize > 0 {
			fmt.Fprintf(w, " ciphertext_size=%d", c.CiphertextSize)
		}
		if c.Reason != "" {
			fmt.Fprintf(w, " reason=%s", c.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}
