package audit

import (
	"fmt"
	"sync"
)

var (
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex
	enabled      bool
)

// Init installs w as the global audit writer. A nil writer disables
// auditing.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}
	globalWriter = w
	enabled = true
	return nil
}

// InitFile installs a FileWriter for path. An empty path disables auditing.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	return Init(w)
}

// Close closes the global writer and disables auditing.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes event and wraps any failure so the caller can fail the
// audited operation with it.
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

func resultOf(success bool) Result {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// LogKeyGenerated logs a key pair generation.
func LogKeyGenerated(path, algorithm, params, profile, fingerprint string, success bool) error {
	event := NewEvent(EventKeyGenerated, resultOf(success)).
		WithObject(Object{
			Type:        "key",
			Path:        path,
			Fingerprint: fingerprint,
		}).
		WithContext(Context{
			Algorithm: algorithm,
			Params:    params,
			Profile:   profile,
		})

	return MustLog(event)
}

// LogEncrypt logs an encryption under the key with the given fingerprint.
func LogEncrypt(algorithm, fingerprint string, messageSize, ciphertextSize int, success bool) error {
	event := NewEvent(EventEncrypt, resultOf(success)).
		WithObject(Object{
			Type:        "message",
			Fingerprint: fingerprint,
		}).
		WithContext(Context{
			Algorithm:      algorithm,
			MessageSize:    messageSize,
			CiphertextSize: ciphertextSize,
		})

	return MustLog(event)
}

// LogDecrypt logs a decryption. A failure is recorded without its cause.
func LogDecrypt(algorithm, fingerprint string, ciphertextSize int, success bool) error {
	ctx := Context{
		Algorithm:      algorithm,
		CiphertextSize: ciphertextSize,
	}
	if !success {
		ctx.Reason = "decryption failed"
	}
	event := NewEvent(EventDecrypt, resultOf(success)).
		WithObject(Object{
			Type:        "message",
			Fingerprint: fingerprint,
		}).
		WithContext(ctx)

	return MustLog(event)
}

// LogKEMEncapsulate logs a KEM encapsulation.
func LogKEMEncapsulate(scheme, fingerprint string, success bool) error {
	event := NewEvent(EventKEMEncapsulate, resultOf(success)).
		WithObject(Object{
			Type:        "key",
			Fingerprint: fingerprint,
		}).
		WithContext(Context{Algorithm: scheme})

	return MustLog(event)
}

// LogKEMDecapsulate logs a KEM decapsulation.
func LogKEMDecapsulate(scheme, fingerprint string, success bool) error {
	event := NewEvent(EventKEMDecapsulate, resultOf(success)).
		WithObject(Object{
			Type:        "key",
			Fingerprint: fingerprint,
		}).
		WithContext(Context{Algorithm: scheme})

	return MustLog(event)
}
