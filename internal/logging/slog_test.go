package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeUser(t *testing.T) {
	assert.Empty(t, AnonymizeUser(""))

	hash := AnonymizeUser("user@example.com")
	assert.True(t, strings.HasPrefix(hash, "user:"))
	assert.NotContains(t, hash, "example.com")

	// Stable across calls, distinct across users.
	assert.Equal(t, hash, AnonymizeUser("user@example.com"))
	assert.NotEqual(t, hash, AnonymizeUser("other@example.com"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))

	masked := SanitizeToken("super-secret-token")
	assert.NotContains(t, masked, "secret")
	assert.Equal(t, "[token:18 chars]", masked)
}

func TestErrNilProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("ok", Err(nil))
	assert.NotContains(t, buf.String(), KeyError)

	buf.Reset()
	logger.Info("failed", Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "error=boom")
}

func TestAttributeHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("call",
		Operation("tasks.create"),
		Tool("ticktick_create_task"),
		TaskID("abc123"),
		Status(StatusSuccess),
	)

	out := buf.String()
	assert.Contains(t, out, "operation=tasks.create")
	assert.Contains(t, out, "tool=ticktick_create_task")
	assert.Contains(t, out, "task_id=abc123")
	assert.Contains(t, out, "status=success")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithTransport(WithTool(base, "ticktick_list_tasks"), "stdio").Info("handled")

	out := buf.String()
	assert.Contains(t, out, "tool=ticktick_list_tasks")
	assert.Contains(t, out, "transport=stdio")
}
