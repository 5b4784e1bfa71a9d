//go:build acceptance

package acceptance

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestA_Serve starts the REST API and runs a key generation and an
// encryption round trip against it.
func TestA_Serve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := 18443
	cmd := execCommandContext(ctx, binary, "serve", "--port", fmt.Sprint(port))
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() { _ = cmd.Wait() }()
	defer cancel()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitReady(t, base+"/ready")

	var key struct {
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
	}
	post(t, base+"/api/v1/keys/generate", map[string]any{"profile": "test/small"}, http.StatusCreated, &key)

	var enc struct {
		Message string `json:"message"`
	}
	post(t, base+"/api/v1/encrypt", map[string]any{
		"public_key": key.PublicKey,
		"plaintext":  map[string]string{"data": "over the wire", "encoding": "text"},
	}, http.StatusOK, &enc)

	var dec struct {
		Plaintext struct {
			Data string `json:"data"`
		} `json:"plaintext"`
	}
	post(t, base+"/api/v1/decrypt", map[string]any{
		"private_key": key.PrivateKey,
		"message":     enc.Message,
	}, http.StatusOK, &dec)

	pt, err := base64.StdEncoding.DecodeString(dec.Plaintext.Data)
	if err != nil || string(pt) != "over the wire" {
		t.Errorf("plaintext = %q (%v)", pt, err)
	}
}

func waitReady(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not ready at %s", url)
}

func post(t *testing.T, url string, body any, wantStatus int, out any) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("POST %s: decode: %v", url, err)
	}
}
