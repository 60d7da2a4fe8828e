package testutil

import (
	"io"
	"log/slog"
	"testing"
)

// Quiet silences the default slog logger for the duration of a test.
// The previous default is restored on cleanup.
func Quiet(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}
