package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
)

func TestNewServerContextRequiresConfig(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil)
	assert.Error(t, err)
}

func TestServerContextShutdown(t *testing.T) {
	sc := newTestServerContext(t)
	assert.False(t, sc.IsShutdown())

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	// Shutdown is idempotent and cancels the context.
	require.NoError(t, sc.Shutdown())
	select {
	case <-sc.Context().Done():
	default:
		t.Fatal("context not cancelled after shutdown")
	}
}

func TestServerContextClientRequiresCredentials(t *testing.T) {
	sc := newTestServerContext(t)

	_, err := sc.Client()
	assert.ErrorContains(t, err, "TICKTICK_USERNAME")
}

func TestServerContextClientAfterShutdown(t *testing.T) {
	sc := newTestServerContext(t)
	require.NoError(t, sc.Shutdown())

	_, err := sc.Client()
	assert.ErrorContains(t, err, "shutting down")
}

func TestServerContextInstrumentationAccessors(t *testing.T) {
	sc := newTestServerContext(t)

	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())

	metrics := &instrumentation.Metrics{}
	audit := instrumentation.NewAuditLogger(nil)
	sc.SetMetrics(metrics)
	sc.SetAuditLogger(audit)

	assert.Same(t, metrics, sc.Metrics())
	assert.Same(t, audit, sc.AuditLogger())
}
