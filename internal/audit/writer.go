package audit

import "io"

// Writer defines the interface for audit log writers.
//
// Implementations must set HashPrev and Hash, persist the event before
// returning, and report every failure.
type Writer interface {
	Write(event *Event) error

	// Close flushes any pending writes and closes the writer.
	Close() error

	// LastHash returns the hash of the last written event, or GenesisHash.
	LastHash() string
}

// NopWriter discards all events. Used when audit logging is disabled.
type NopWriter struct{}

var _ Writer = (*NopWriter)(nil)

func (NopWriter) Write(*Event) error { return nil }
func (NopWriter) Close() error       { return nil }
func (NopWriter) LastHash() string   { return GenesisHash }

var _ io.Closer = (Writer)(nil)
