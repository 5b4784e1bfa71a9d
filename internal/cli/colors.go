// Package cli holds terminal helpers shared by the mceliece commands.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	labelColor   = color.New(color.FgCyan)
)

// FormatStatus returns a colored status string.
func FormatStatus(status string) string {
	switch status {
	case "valid", "ok", "success":
		return successColor.Sprint(status)
	case "invalid", "failure", "tampered":
		return failureColor.Sprint(status)
	case "pending", "warning":
		return warnColor.Sprint(status)
	default:
		return status
	}
}

// Success prints a green line to w.
func Success(w io.Writer, format string, args ...any) {
	_, _ = successColor.Fprintf(w, format+"\n", args...)
}

// Failure prints a red line to w.
func Failure(w io.Writer, format string, args ...any) {
	_, _ = failureColor.Fprintf(w, format+"\n", args...)
}

// Warn prints a yellow line to w.
func Warn(w io.Writer, format string, args ...any) {
	_, _ = warnColor.Fprintf(w, format+"\n", args...)
}

// Field prints an indented "Label: value" line with the label colored.
func Field(w io.Writer, label string, value any) {
	_, _ = fmt.Fprintf(w, "  %s %v\n", labelColor.Sprintf("%-18s", label+":"), value)
}
