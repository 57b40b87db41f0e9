package filter_tools

import (
	"strings"
	"time"

	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
)

// filterByStatus keeps tasks whose completion state matches completed.
func filterByStatus(tasks []ticktick.Task, completed bool) []ticktick.Task {
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() == completed {
			out = append(out, t)
		}
	}
	return out
}

// filterByPriority keeps tasks at exactly the given priority level.
func filterByPriority(tasks []ticktick.Task, level int) []ticktick.Task {
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == level {
			out = append(out, t)
		}
	}
	return out
}

// filterByDueDate keeps tasks due on the given calendar day. Tasks without
// a due date, or with one that cannot be parsed, are skipped.
func filterByDueDate(tasks []ticktick.Task, day time.Time) []ticktick.Task {
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		due, err := ticktick.ParseTime(t.DueDate)
		if err != nil {
			continue
		}
		if ticktick.SameDay(due, day) {
			out = append(out, t)
		}
	}
	return out
}

// filterByProject keeps tasks belonging to the given project.
func filterByProject(tasks []ticktick.Task, projectID string) []ticktick.Task {
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// filterByTags keeps tasks carrying at least one of the given tags.
// Tag comparison is case-insensitive.
func filterByTags(tasks []ticktick.Task, tags []string) []ticktick.Task {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[strings.ToLower(tag)] = true
	}

	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		for _, have := range t.Tags {
			if want[strings.ToLower(have)] {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// overdueTasks keeps incomplete tasks whose due date is strictly before now.
// Completed tasks are never overdue.
func overdueTasks(tasks []ticktick.Task, now time.Time) []ticktick.Task {
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		due, err := ticktick.ParseTime(t.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

// upcomingTasks keeps incomplete tasks due between now and now+days,
// inclusive of tasks due later today.
func upcomingTasks(tasks []ticktick.Task, now time.Time, days int) []ticktick.Task {
	horizon := now.AddDate(0, 0, days)
	out := make([]ticktick.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		due, err := ticktick.ParseTime(t.DueDate)
		if err != nil {
			continue
		}
		if ticktick.SameDay(due, now) {
			out = append(out, t)
			continue
		}
		if due.After(now) && !due.After(horizon) {
			out = append(out, t)
		}
	}
	return out
}
