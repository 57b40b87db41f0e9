// Package task_tools provides MCP tools for managing TickTick tasks.
//
// This package implements MCP (Model Context Protocol) tools that wrap the
// TickTick client functionality, providing task management capabilities for
// AI assistants.
//
// # Available Tools
//
//   - ticktick_list_tasks: List tasks, optionally restricted to a project
//   - ticktick_create_task: Create a new task
//   - ticktick_update_task: Update fields of an existing task
//   - ticktick_delete_tasks: Delete one or more tasks
//   - ticktick_get_task_details: Get the full details of a task
//   - ticktick_complete_tasks: Mark one or more tasks as completed
//   - ticktick_incomplete_tasks: Mark one or more tasks as incomplete
//   - ticktick_search_tasks: Search tasks by keyword
//
// # Batch Operations
//
// The delete, complete, and incomplete tools accept either a single task ID
// string or a JSON array of task IDs. Each ID is processed independently and
// the result reports per-ID success or failure, so one bad ID never aborts
// the rest of the batch.
//
// # Priority Values
//
// Tools accept priority either as a level name (none, low, medium, high) or
// as the numeric value the TickTick API uses (0, 5, 3, 1 respectively).
package task_tools
