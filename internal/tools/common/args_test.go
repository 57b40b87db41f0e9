package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"title": "Buy milk", "count": 3.0}

	assert.Equal(t, "Buy milk", StringArg(args, "title"))
	assert.Empty(t, StringArg(args, "missing"))
	assert.Empty(t, StringArg(args, "count"))
}

func TestRequiredStringArg(t *testing.T) {
	args := map[string]interface{}{
		"task_id": "abc",
		"empty":   "",
		"number":  1.0,
	}

	v, err := RequiredStringArg(args, "task_id")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = RequiredStringArg(args, "missing")
	assert.ErrorContains(t, err, "missing is required")

	_, err = RequiredStringArg(args, "empty")
	assert.ErrorContains(t, err, "cannot be empty")

	_, err = RequiredStringArg(args, "number")
	assert.ErrorContains(t, err, "must be a string")
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"limit":      10.0,
		"fractional": 1.5,
		"text":       "ten",
	}

	v, err := IntArg(args, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = IntArg(args, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = IntArg(args, "fractional", 0)
	assert.ErrorContains(t, err, "must be an integer")

	_, err = IntArg(args, "text", 0)
	assert.ErrorContains(t, err, "must be a number")
}

func TestBoolArg(t *testing.T) {
	args := map[string]interface{}{"flag": true}

	assert.True(t, BoolArg(args, "flag", false))
	assert.True(t, BoolArg(args, "missing", true))
	assert.False(t, BoolArg(args, "missing", false))
}
