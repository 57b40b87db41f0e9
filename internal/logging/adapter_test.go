package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	// The adapter satisfies the Logger interface.
	var _ Logger = adapter

	adapter.Debug("debug msg", "k", "v")
	adapter.Info("info msg", "k", "v")
	adapter.Warn("warn msg", "k", "v")
	adapter.Error("error msg", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
	assert.Contains(t, out, "k=v")
}

func TestNewSlogAdapterNilFallsBackToDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	require.NotNil(t, adapter.Logger())
}
