//go:build acceptance

package acceptance

import (
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Key Tests (TestA_Key_*)
// =============================================================================

func TestA_Key_Help(t *testing.T) {
	output := run(t, "key", "--help")
	for _, sub := range []string{"gen", "info", "pub"} {
		assertOutputContains(t, output, sub)
	}
}

func TestA_Key_GenInfoPub(t *testing.T) {
	priv, pub := generateKey(t, "cca2/kobara-imai")

	info := run(t, "key", "info", priv)
	assertOutputContains(t, info, "mceliece-kobara-imai")
	assertOutputContains(t, info, "m=11 t=50 n=2048 k=1498")

	extracted := filepath.Join(t.TempDir(), "pub.pem")
	run(t, "key", "pub", "--key", priv, "--out", extracted)
	want := run(t, "key", "info", pub)
	got := run(t, "key", "info", extracted)
	if strings.SplitN(want, "\n", 2)[1] != strings.SplitN(got, "\n", 2)[1] {
		t.Errorf("extracted public key differs:\n%s\n%s", want, got)
	}
}

func TestA_Key_GenExplicit(t *testing.T) {
	key := filepath.Join(t.TempDir(), "k.pem")
	run(t, "key", "gen", "--algorithm", "mceliece-pointcheval", "--m", "10", "--t", "30",
		"--digest", "sha3-512", "--no-progress", "--out", key)

	info := run(t, "key", "info", key)
	assertOutputContains(t, info, "SHA3-512")
}

func TestA_Key_InvalidParameters(t *testing.T) {
	key := filepath.Join(t.TempDir(), "k.pem")
	out := runExpectError(t, "key", "gen", "--algorithm", "mceliece", "--m", "8", "--t", "40", "--out", key)
	assertOutputContains(t, out, "invalid parameters")
}
