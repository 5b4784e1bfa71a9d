package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/remiblancher/mceliece/internal/audit"
)

func init() {
	color.NoColor = true
}

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	return executeCommandWithInput(root, nil, args...)
}

// executeCommandWithInput is executeCommand with stdin set to in.
func executeCommandWithInput(root *cobra.Command, in io.Reader, args ...string) (output string, err error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(in)
	root.SetArgs(args)

	err = root.Execute()
	if err != nil {
		// PersistentPostRunE does not run after a failure.
		_ = audit.Close()
	}
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default
// value and clears the Changed marks used by required-flag checks.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

// newTestContext creates a new test context with a temp directory.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	return &testContext{t: t, tempDir: t.TempDir()}
}

// path returns a path within the temp directory.
func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

// writeFile writes content to a file in the temp directory.
func (tc *testContext) writeFile(name, content string) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

// genKey generates a key pair from profile and returns the private and
// public key paths.
func (tc *testContext) genKey(profile, name string, extra ...string) (string, string) {
	tc.t.Helper()
	priv := tc.path(name + ".key")
	pub := tc.path(name + ".pub")
	args := append([]string{"key", "gen", "--profile", profile, "--seed", "5eed", "--no-progress",
		"--out", priv, "--pub-out", pub}, extra...)
	if out, err := executeCommand(rootCmd, args...); err != nil {
		tc.t.Fatalf("key gen failed: %v\n%s", err, out)
	}
	return priv, pub
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("file %s is empty", path)
	}
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output does not contain %q:\n%s", want, output)
	}
}
