package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInvocationLifecycle(t *testing.T) {
	ti := NewToolInvocation("ticktick_create_task")
	require.False(t, ti.StartTime.IsZero())

	ti.WithUser("user@example.com").
		WithEndpoint(EndpointTask, OperationCreate).
		WithTask("task-1").
		CompleteSuccess()

	assert.True(t, ti.Success)
	assert.Empty(t, ti.Error)
	assert.GreaterOrEqual(t, ti.Duration, time.Duration(0))
	assert.Equal(t, StatusSuccess, ti.Status())
}

func TestToolInvocationCompleteWithError(t *testing.T) {
	ti := NewToolInvocation("ticktick_delete_task").
		CompleteWithError(errors.New("task not found"))

	assert.False(t, ti.Success)
	assert.Equal(t, "task not found", ti.Error)
	assert.Equal(t, StatusError, ti.Status())
}

func TestToolInvocationUserDomain(t *testing.T) {
	ti := NewToolInvocation("tool").WithUser("jane@example.com")
	assert.Equal(t, "example.com", ti.UserDomain())

	ti = NewToolInvocation("tool")
	assert.Equal(t, "unknown", ti.UserDomain())
}

func TestLogAttrsHidesPII(t *testing.T) {
	ti := NewToolInvocation("ticktick_list_tasks").
		WithUser("jane@example.com").
		WithEndpoint(EndpointSync, OperationList).
		CompleteSuccess()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.LogAttrs(t.Context(), slog.LevelInfo, "tool_executed", ti.LogAttrs()...)

	out := buf.String()
	assert.Contains(t, out, "user_domain=example.com")
	assert.NotContains(t, out, "jane@example.com")
}

func TestLogAuditAttrsIncludesPII(t *testing.T) {
	ti := NewToolInvocation("ticktick_list_tasks").
		WithUser("jane@example.com").
		WithTask("task-9").
		CompleteSuccess()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.LogAttrs(t.Context(), slog.LevelInfo, "tool_audit", ti.LogAuditAttrs()...)

	out := buf.String()
	assert.Contains(t, out, "user=jane@example.com")
	assert.Contains(t, out, "task_id=task-9")
}

func TestAuditLoggerRespectsEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})
	al.LogToolInvocation(NewToolInvocation("tool").CompleteSuccess())
	al.LogToolAudit(NewToolInvocation("tool").CompleteSuccess())

	assert.Empty(t, buf.String())
}

func TestAuditLoggerPIIConfiguration(t *testing.T) {
	ti := NewToolInvocation("ticktick_get_task_details").
		WithUser("jane@example.com").
		CompleteSuccess()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	al.LogToolInvocation(ti)
	assert.NotContains(t, buf.String(), "jane@example.com")

	buf.Reset()
	al.SetIncludePII(true)
	al.LogToolInvocation(ti)
	assert.Contains(t, buf.String(), "jane@example.com")
}

func TestAuditLoggerFailureLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	al.LogToolInvocation(NewToolInvocation("tool").CompleteWithError(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "tool_failed")
	assert.Contains(t, out, "error=boom")
}
