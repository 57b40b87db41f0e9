package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newTestTracer installs an always-sampling tracer provider with an
// in-memory exporter and restores the global provider afterwards.
func newTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = provider.Shutdown(context.Background())
	})
	return exporter
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("ticktick_update_task").
		WithEndpoint(EndpointTask).
		WithOperation(OperationUpdate).
		WithTask("task-1").
		WithProject("proj-1").
		WithReadOnly(false).
		Build()

	require.Len(t, attrs, 6)

	byKey := make(map[attribute.Key]attribute.Value)
	for _, a := range attrs {
		byKey[a.Key] = a.Value
	}
	assert.Equal(t, "ticktick_update_task", byKey[SpanAttrTool].AsString())
	assert.Equal(t, EndpointTask, byKey[SpanAttrEndpoint].AsString())
	assert.Equal(t, OperationUpdate, byKey[SpanAttrOperation].AsString())
	assert.Equal(t, "task-1", byKey[SpanAttrTaskID].AsString())
	assert.Equal(t, "proj-1", byKey[SpanAttrProjectID].AsString())
	assert.False(t, byKey[SpanAttrReadOnly].AsBool())
}

func TestSpanAttributeBuilderSkipsEmptyIdentifiers(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTask("").
		WithProject("").
		Build()

	assert.Empty(t, attrs)
}

func TestStartToolSpan(t *testing.T) {
	exporter := newTestTracer(t)

	ctx, span := StartToolSpan(context.Background(), "ticktick_list_tasks")
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	SetSpanSuccess(span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.ticktick_list_tasks", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestStartAPISpanRecordsError(t *testing.T) {
	exporter := newTestTracer(t)

	_, span := StartAPISpan(context.Background(), EndpointSync, OperationSync)
	SetSpanError(span, errors.New("upstream unavailable"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "ticktick.sync.sync", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
}

func TestTraceHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
	assert.Empty(t, SpanContextString(ctx))
}

func TestSpanContextString(t *testing.T) {
	newTestTracer(t)

	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()

	s := SpanContextString(ctx)
	assert.Contains(t, s, "trace_id=")
	assert.Contains(t, s, "span_id=")
}
