//go:build acceptance

// Package acceptance contains black-box CLI acceptance tests (TestA_*).
// Run with: go test -tags=acceptance ./test/acceptance/...
package acceptance

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binary is the path to the mceliece binary.
// Set via MCELIECE_BINARY env var or default to ./bin/mceliece in the repo root.
var binary string

func init() {
	if bin := os.Getenv("MCELIECE_BINARY"); bin != "" {
		binary = bin
	} else {
		binary = "../../bin/mceliece"
	}
}

// run executes the mceliece CLI with the given arguments and returns stdout.
// Fails the test if the command returns a non-zero exit code.
func run(t *testing.T, args ...string) string {
	t.Helper()
	return runWithInput(t, nil, args...)
}

// runWithInput is run with stdin read from in.
func runWithInput(t *testing.T, in []byte, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	if in != nil {
		cmd.Stdin = bytes.NewReader(in)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("mceliece %s failed: %v\nstderr: %s\nstdout: %s",
			strings.Join(args, " "), err, stderr.String(), stdout.String())
	}
	return stdout.String()
}

// runExpectError executes mceliece and expects it to fail.
// Returns the combined output (stdout + stderr).
func runExpectError(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err == nil {
		t.Fatalf("mceliece %s expected to fail but succeeded\nstdout: %s",
			strings.Join(args, " "), stdout.String())
	}
	return stdout.String() + stderr.String()
}

// generateKey creates a key pair from profile and returns the private and
// public key paths.
func generateKey(t *testing.T, profile string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	priv := filepath.Join(dir, "key.pem")
	pub := filepath.Join(dir, "pub.pem")

	run(t, "key", "gen", "--profile", profile, "--no-progress", "--out", priv, "--pub-out", pub)
	assertFileExists(t, priv)
	assertFileExists(t, pub)
	return priv, pub
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("expected file to exist: %s", path)
	}
}

// assertOutputContains fails if the output does not contain the expected substring.
func assertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got: %s", expected, output)
	}
}

// writeTestFile creates a temporary file with the given content.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// execCommandContext wraps exec.CommandContext for background processes.
func execCommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
