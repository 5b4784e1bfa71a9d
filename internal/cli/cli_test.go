package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/remiblancher/mceliece/pkg/mceliece"
)

func init() {
	color.NoColor = true
}

// =============================================================================
// [Unit] Output
// =============================================================================

func TestU_FormatStatus(t *testing.T) {
	for _, s := range []string{"valid", "invalid", "pending", "other"} {
		if got := FormatStatus(s); got != s {
			t.Errorf("FormatStatus(%q) = %q without color", s, got)
		}
	}
}

func TestU_PrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "saved %s", "a.key")
	Failure(&buf, "failed")
	Warn(&buf, "careful")
	Field(&buf, "Algorithm", "mceliece")

	out := buf.String()
	for _, want := range []string{"saved a.key\n", "failed\n", "careful\n", "Algorithm:", "mceliece\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestU_KeyGenProgress(t *testing.T) {
	var buf bytes.Buffer
	onStage, finish := KeyGenProgress(&buf, "Generating")
	for s := mceliece.StageGoppaPolynomial; s <= mceliece.StageDone; s++ {
		onStage(s)
	}
	finish()
	if buf.Len() == 0 {
		t.Error("progress bar wrote nothing")
	}
}

// =============================================================================
// [Unit] Files
// =============================================================================

func TestU_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := WriteOutput(path, nil, []byte("data")); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	got, err := ReadInput(path, nil)
	if err != nil || string(got) != "data" {
		t.Errorf("ReadInput() = %q, %v", got, err)
	}

	var stdout bytes.Buffer
	if err := WriteOutput("-", &stdout, []byte("x")); err != nil || stdout.String() != "x" {
		t.Errorf("WriteOutput(-) = %q, %v", stdout.String(), err)
	}
	got, err = ReadInput("-", strings.NewReader("stdin"))
	if err != nil || string(got) != "stdin" {
		t.Errorf("ReadInput(-) = %q, %v", got, err)
	}

	if _, err := ReadInput(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("ReadInput() of a missing file should fail")
	}
	if err := WriteOutput(filepath.Join(t.TempDir(), "no", "such", "dir"), nil, nil); err == nil {
		t.Error("WriteOutput() into a missing directory should fail")
	}
	_ = os.Remove(path)
}

func TestU_FirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("FirstNonEmpty() = %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("FirstNonEmpty() = %q", got)
	}
}
