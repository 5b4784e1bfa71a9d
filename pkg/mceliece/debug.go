//go:build mceliecedebug

package mceliece

import (
	"log/slog"
	"os"
)

func init() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	debugHook = func(op string, cause error) {
		logger.Debug("decryption failure", "op", op, "cause", cause)
	}
}
