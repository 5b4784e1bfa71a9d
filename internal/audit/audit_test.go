package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Event Tests
// =============================================================================

func TestU_NewEvent_Creation(t *testing.T) {
	event := NewEvent(EventKeyGenerated, ResultSuccess)

	if event.EventType != EventKeyGenerated {
		t.Errorf("expected EventType=%s, got %s", EventKeyGenerated, event.EventType)
	}
	if event.Result != ResultSuccess {
		t.Errorf("expected Result=%s, got %s", ResultSuccess, event.Result)
	}
	if event.Timestamp == "" {
		t.Error("Timestamp should not be empty")
	}
	if event.Actor.Type != "user" || event.Actor.ID == "" {
		t.Errorf("unexpected actor %+v", event.Actor)
	}
}

func TestU_Event_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   *Event
		wantErr bool
	}{
		{
			name:    "[Unit] Validate: valid event",
			event:   NewEvent(EventEncrypt, ResultSuccess),
			wantErr: false,
		},
		{
			name: "[Unit] Validate: missing event_type",
			event: &Event{
				Timestamp: "2026-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing timestamp",
			event: &Event{
				EventType: EventDecrypt,
				Actor:     Actor{Type: "user", ID: "admin"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing actor",
			event: &Event{
				EventType: EventDecrypt,
				Timestamp: "2026-01-15T10:00:00Z",
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing result",
			event: &Event{
				EventType: EventDecrypt,
				Timestamp: "2026-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestU_Event_CanonicalJSON(t *testing.T) {
	event := NewEvent(EventEncrypt, ResultSuccess).
		WithObject(Object{Type: "message", Fingerprint: "ab12"})
	event.HashPrev = GenesisHash
	event.Hash = "sha256:ignored"

	canonical, err := event.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON() error = %v", err)
	}
	if strings.Contains(string(canonical), `"hash":`) {
		t.Error("CanonicalJSON should not contain hash field")
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(canonical, &parsed); err != nil {
		t.Errorf("CanonicalJSON produced invalid JSON: %v", err)
	}
}

func TestU_Event_WithActor(t *testing.T) {
	event := NewEvent(EventDecrypt, ResultSuccess).
		WithActor(Actor{Type: "service", ID: "mceliece-api"})
	if event.Actor.Type != "service" || event.Actor.ID != "mceliece-api" || event.Actor.Host != "" {
		t.Errorf("unexpected actor %+v", event.Actor)
	}
}

// =============================================================================
// FileWriter Tests
// =============================================================================

func TestU_FileWriter_Write(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer.Close() }()

	event1 := NewEvent(EventKeyGenerated, ResultSuccess).
		WithObject(Object{Type: "key", Path: "alice.key"})
	if err := writer.Write(event1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event1.HashPrev != GenesisHash {
		t.Errorf("first event HashPrev = %s, want %s", event1.HashPrev, GenesisHash)
	}
	if !strings.HasPrefix(event1.Hash, HashPrefix) {
		t.Errorf("Hash = %s, want %s prefix", event1.Hash, HashPrefix)
	}

	event2 := NewEvent(EventEncrypt, ResultSuccess)
	if err := writer.Write(event2); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event2.HashPrev != event1.Hash {
		t.Errorf("second event HashPrev = %s, want %s", event2.HashPrev, event1.Hash)
	}
	if writer.LastHash() != event2.Hash {
		t.Errorf("LastHash() = %s, want %s", writer.LastHash(), event2.Hash)
	}
	if writer.Path() != logPath {
		t.Errorf("Path() = %s, want %s", writer.Path(), logPath)
	}
}

func TestU_FileWriter_Append(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	w1, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	if err := w1.Write(NewEvent(EventEncrypt, ResultSuccess)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	last := w1.LastHash()
	_ = w1.Close()

	w2, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() reopen error = %v", err)
	}
	defer func() { _ = w2.Close() }()
	if w2.LastHash() != last {
		t.Errorf("reopened LastHash() = %s, want %s", w2.LastHash(), last)
	}

	event := NewEvent(EventDecrypt, ResultSuccess)
	if err := w2.Write(event); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event.HashPrev != last {
		t.Errorf("HashPrev = %s, want %s", event.HashPrev, last)
	}

	n, err := VerifyChain(logPath)
	if err != nil || n != 2 {
		t.Errorf("VerifyChain() = %d, %v, want 2, nil", n, err)
	}
}

func TestU_FileWriter_WriteAfterClose(t *testing.T) {
	w, err := NewFileWriter(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Write(NewEvent(EventEncrypt, ResultSuccess)); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}
}

func TestU_FileWriter_InvalidEvent(t *testing.T) {
	w, err := NewFileWriter(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Write(&Event{}); err == nil {
		t.Error("Write() of empty event should fail")
	}
	if w.LastHash() != GenesisHash {
		t.Error("a rejected event must not advance the chain")
	}
}

func TestU_FileWriter_InvalidExistingLog(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"[Unit] Existing log: invalid JSON", "not json\n"},
		{"[Unit] Existing log: missing hash", `{"event_type":"ENCRYPT"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "audit.jsonl")
			if err := os.WriteFile(logPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := NewFileWriter(logPath); err == nil {
				t.Error("NewFileWriter() should fail")
			}
		})
	}
}

func TestU_FileWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	w, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Write(NewEvent(EventEncrypt, ResultSuccess)); err != nil {
				t.Errorf("Write() error = %v", err)
			}
		}()
	}
	wg.Wait()
	_ = w.Close()

	n, err := VerifyChain(logPath)
	if err != nil || n != 20 {
		t.Errorf("VerifyChain() = %d, %v, want 20, nil", n, err)
	}
}

// =============================================================================
// VerifyChain Tests
// =============================================================================

func writeLog(t *testing.T, events int) string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	w, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	for i := 0; i < events; i++ {
		if err := w.Write(NewEvent(EventEncrypt, ResultSuccess).
			WithContext(Context{MessageSize: i + 1})); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return logPath
}

func TestU_VerifyChain_ValidLog(t *testing.T) {
	logPath := writeLog(t, 5)
	n, err := VerifyChain(logPath)
	if err != nil {
		t.Fatalf("VerifyChain() error = %v", err)
	}
	if n != 5 {
		t.Errorf("VerifyChain() = %d, want 5", n)
	}
}

func TestU_VerifyChain_Tampering(t *testing.T) {
	logPath := writeLog(t, 3)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	tests := []struct {
		name      string
		lines     []string
		wantValid int
	}{
		{
			name:      "[Unit] Tampering: modified field",
			lines:     []string{lines[0], strings.Replace(lines[1], `"message_size":2`, `"message_size":9`, 1), lines[2]},
			wantValid: 1,
		},
		{
			name:      "[Unit] Tampering: removed event",
			lines:     []string{lines[0], lines[2]},
			wantValid: 1,
		},
		{
			name:      "[Unit] Tampering: reordered events",
			lines:     []string{lines[1], lines[0], lines[2]},
			wantValid: 0,
		},
		{
			name:      "[Unit] Tampering: invalid JSON",
			lines:     []string{lines[0], "{", lines[2]},
			wantValid: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "audit.jsonl")
			if err := os.WriteFile(path, []byte(strings.Join(tt.lines, "\n")+"\n"), 0600); err != nil {
				t.Fatal(err)
			}
			n, err := VerifyChain(path)
			if err == nil {
				t.Fatal("VerifyChain() should detect tampering")
			}
			if n != tt.wantValid {
				t.Errorf("VerifyChain() valid = %d, want %d", n, tt.wantValid)
			}
		})
	}
}

func TestU_VerifyChain_EmptyAndBlank(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.jsonl")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if n, err := VerifyChain(empty); err != nil || n != 0 {
		t.Errorf("VerifyChain(empty) = %d, %v", n, err)
	}

	logPath := writeLog(t, 2)
	data, _ := os.ReadFile(logPath)
	blank := filepath.Join(dir, "blank.jsonl")
	if err := os.WriteFile(blank, append([]byte("\n  \n"), data...), 0600); err != nil {
		t.Fatal(err)
	}
	if n, err := VerifyChain(blank); err != nil || n != 2 {
		t.Errorf("VerifyChain(blank lines) = %d, %v", n, err)
	}

	if _, err := VerifyChain(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("VerifyChain() of a missing file should fail")
	}
}

// =============================================================================
// Global Logger Tests
// =============================================================================

func TestU_GlobalAudit_Helpers(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := InitFile(logPath); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	if !Enabled() {
		t.Fatal("Enabled() = false after InitFile")
	}

	calls := []struct {
		name string
		fn   func() error
	}{
		{"KeyGenerated", func() error {
			return LogKeyGenerated("alice.key", "mceliece-fujisaki", "m=8 t=10 n=256 k=176", "test", "ab12", true)
		}},
		{"Encrypt", func() error { return LogEncrypt("mceliece-fujisaki", "ab12", 10, 42, true) }},
		{"Decrypt", func() error { return LogDecrypt("mceliece-fujisaki", "ab12", 42, false) }},
		{"KEMEncapsulate", func() error { return LogKEMEncapsulate("McEliece-Fujisaki-256-10", "ab12", true) }},
		{"KEMDecapsulate", func() error { return LogKEMDecapsulate("McEliece-Fujisaki-256-10", "ab12", true) }},
	}
	for _, c := range calls {
		if err := c.fn(); err != nil {
			t.Errorf("%s error = %v", c.name, err)
		}
	}
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if Enabled() {
		t.Error("Enabled() = true after Close")
	}

	n, err := VerifyChain(logPath)
	if err != nil || n != len(calls) {
		t.Fatalf("VerifyChain() = %d, %v, want %d", n, err, len(calls))
	}

	data, _ := os.ReadFile(logPath)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var decrypt Event
	if err := json.Unmarshal([]byte(lines[2]), &decrypt); err != nil {
		t.Fatal(err)
	}
	if decrypt.EventType != EventDecrypt || decrypt.Result != ResultFailure {
		t.Errorf("unexpected decrypt event %+v", decrypt)
	}
	if decrypt.Context.Reason != "decryption failed" {
		t.Errorf("Reason = %q", decrypt.Context.Reason)
	}
}

type failingWriter struct{ NopWriter }

func (failingWriter) Write(*Event) error { return errors.New("disk full") }

func TestU_MustLog_Error(t *testing.T) {
	if err := Init(failingWriter{}); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = Init(nil) }()

	err := LogEncrypt("mceliece", "", 1, 256, true)
	if err == nil || !strings.Contains(err.Error(), "audit log failed") {
		t.Errorf("LogEncrypt() error = %v, want audit failure", err)
	}
}

func TestU_GlobalAudit_Disabled(t *testing.T) {
	if err := InitFile(""); err != nil {
		t.Fatal(err)
	}
	if Enabled() {
		t.Error("Enabled() = true for empty path")
	}
	if err := LogEncrypt("mceliece", "", 1, 256, true); err != nil {
		t.Errorf("LogEncrypt() with auditing disabled error = %v", err)
	}
}
