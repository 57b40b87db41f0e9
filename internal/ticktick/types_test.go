package ticktick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"none", PriorityNone, true},
		{"high", PriorityHigh, true},
		{"medium", PriorityMedium, true},
		{"low", PriorityLow, true},
		{"urgent", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePriority(tt.name)
		assert.Equal(t, tt.ok, ok, "name %q", tt.name)
		if ok {
			assert.Equal(t, tt.want, got, "name %q", tt.name)
		}
	}
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(0))
	assert.True(t, ValidPriority(1))
	assert.True(t, ValidPriority(3))
	assert.True(t, ValidPriority(5))
	assert.False(t, ValidPriority(2))
	assert.False(t, ValidPriority(-1))
	assert.False(t, ValidPriority(7))
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, got)

	got, ok = ParseStatus("incomplete")
	assert.True(t, ok)
	assert.Equal(t, StatusIncomplete, got)

	_, ok = ParseStatus("done")
	assert.False(t, ok)
}

func TestTaskIsCompleted(t *testing.T) {
	assert.False(t, (&Task{Status: StatusIncomplete}).IsCompleted())
	assert.True(t, (&Task{Status: StatusCompleted}).IsCompleted())
}

func TestTaskHasTag(t *testing.T) {
	task := &Task{Tags: []string{"work", "urgent"}}
	assert.True(t, task.HasTag("work"))
	assert.True(t, task.HasTag("urgent"))
	assert.False(t, task.HasTag("home"))
	assert.False(t, (&Task{}).HasTag("work"))
}
