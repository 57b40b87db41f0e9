package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
	"github.com/jaeyeom/ticktick-mcp/internal/server"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), &config.Config{
		Username: "user@example.com",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func newMetricsRecorder(t *testing.T) (*instrumentation.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := instrumentation.NewMetrics(provider.Meter("test"), false)
	require.NoError(t, err)
	return metrics, reader
}

func metricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestInstrumentedToolHandlerPassThroughWithoutInstrumentation(t *testing.T) {
	sc := newTestContext(t)

	called := false
	handler := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandlerRecordsMetrics(t *testing.T) {
	sc := newTestContext(t)
	metrics, reader := newMetricsRecorder(t)
	sc.SetMetrics(metrics)

	handler := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), newRequest(nil))
	require.NoError(t, err)

	names := metricNames(t, reader)
	assert.True(t, names["mcp_tool_invocations_total"])
	assert.True(t, names["mcp_tool_duration_seconds"])
}

func TestInstrumentedToolHandlerWithEndpointRecordsAPIMetrics(t *testing.T) {
	sc := newTestContext(t)
	metrics, reader := newMetricsRecorder(t)
	sc.SetMetrics(metrics)

	handler := InstrumentedToolHandlerWithEndpoint(
		"ticktick_create_task",
		instrumentation.EndpointTask,
		instrumentation.OperationCreate,
		sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("ok"), nil
		},
	)

	_, err := handler(context.Background(), newRequest(map[string]interface{}{"task_id": "t1"}))
	require.NoError(t, err)

	names := metricNames(t, reader)
	assert.True(t, names["mcp_tool_invocations_total"])
	assert.True(t, names["ticktick_api_operations_total"])
}

func TestInstrumentedToolHandlerAuditsFailures(t *testing.T) {
	sc := newTestContext(t)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	_, err := handler(context.Background(), newRequest(nil))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "tool_failed")
	assert.Contains(t, out, "error=boom")
	// PII stays out of the default audit stream.
	assert.NotContains(t, out, "user@example.com")
}

func TestInstrumentedToolHandlerTreatsToolErrorResultAsError(t *testing.T) {
	sc := newTestContext(t)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad argument"), nil
	})

	result, err := handler(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, buf.String(), "tool_failed")
}
