// Package filter_tools provides MCP tools for filtering TickTick tasks.
//
// Filtering happens in the server after a full account sync, so every tool
// here works on a consistent snapshot of the task list. The TickTick API has
// no server-side query language; the sync endpoint returns all open tasks in
// one response, which keeps client-side filtering cheap.
//
// # Available Tools
//
//   - ticktick_filter_tasks_by_status: Match by completion status
//   - ticktick_filter_tasks_by_priority: Match by priority level
//   - ticktick_filter_tasks_by_due_date: Match by calendar day
//   - ticktick_filter_tasks_by_project: Match by project ID
//   - ticktick_filter_tasks_by_tags: Match tasks carrying any of the given tags
//   - ticktick_get_overdue_tasks: Incomplete tasks past their due date
//   - ticktick_get_today_tasks: Tasks due today
//   - ticktick_get_upcoming_tasks: Incomplete tasks due within a look-ahead window
package filter_tools
