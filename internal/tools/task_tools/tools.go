package task_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
	"github.com/jaeyeom/ticktick-mcp/internal/server"
	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/batch"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/common"
)

// tasksJSON renders a task list as indented JSON, never as "null".
func tasksJSON(tasks []ticktick.Task) string {
	if tasks == nil {
		tasks = []ticktick.Task{}
	}
	data, _ := json.MarshalIndent(tasks, "", "  ")
	return string(data)
}

func taskJSON(task *ticktick.Task) string {
	data, _ := json.MarshalIndent(task, "", "  ")
	return string(data)
}

// priorityFromArgs reads the optional priority argument, which may be a
// level name ("none", "low", "medium", "high") or the numeric API value.
func priorityFromArgs(args map[string]interface{}) (*int, error) {
	v, ok := args["priority"]
	if !ok {
		return nil, nil
	}
	switch p := v.(type) {
	case string:
		if p == "" {
			return nil, nil
		}
		level, ok := ticktick.ParsePriority(p)
		if !ok {
			return nil, fmt.Errorf("invalid priority %q: must be none, low, medium, or high", p)
		}
		return &level, nil
	case float64:
		level := int(p)
		if !ticktick.ValidPriority(level) {
			return nil, fmt.Errorf("invalid priority %d: must be 0 (none), 1 (high), 3 (medium), or 5 (low)", level)
		}
		return &level, nil
	default:
		return nil, fmt.Errorf("priority must be a level name or number")
	}
}

// RegisterTaskTools registers the task CRUD and search tools with the MCP server.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerListTasks(s, sc)
	registerCreateTask(s, sc)
	registerUpdateTask(s, sc)
	registerDeleteTasks(s, sc)
	registerGetTaskDetails(s, sc)
	registerCompleteTasks(s, sc)
	registerIncompleteTasks(s, sc)
	registerSearchTasks(s, sc)
	return nil
}

func registerListTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_list_tasks",
		mcp.WithDescription("List tasks from TickTick, optionally restricted to a project"),
		mcp.WithString("projectId",
			mcp.Description("Only return tasks from this project"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default: all)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_list_tasks", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			limit, err := common.IntArg(args, "limit", 0)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			projectID := common.StringArg(args, "projectId")

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			tasks, err := client.Tasks(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
			}

			if projectID != "" {
				filtered := tasks[:0:0]
				for _, t := range tasks {
					if t.ProjectID == projectID {
						filtered = append(filtered, t)
					}
				}
				tasks = filtered
			}
			if limit > 0 && len(tasks) > limit {
				tasks = tasks[:limit]
			}

			return mcp.NewToolResultText(tasksJSON(tasks)), nil
		}))
}

func registerCreateTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_create_task",
		mcp.WithDescription("Create a new task in TickTick"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("content",
			mcp.Description("Task description/notes"),
		),
		mcp.WithString("dueDate",
			mcp.Description("Due date as YYYY-MM-DD or an ISO 8601 datetime"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority level: none, low, medium, or high"),
		),
		mcp.WithString("projectId",
			mcp.Description("Project to create the task in (default: inbox)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_create_task", instrumentation.EndpointTask, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			title, err := common.RequiredStringArg(args, "title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			priority, err := priorityFromArgs(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := client.CreateTask(ctx, ticktick.TaskInput{
				Title:     title,
				Content:   common.StringArg(args, "content"),
				DueDate:   common.StringArg(args, "dueDate"),
				ProjectID: common.StringArg(args, "projectId"),
				Priority:  priority,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
			}

			return mcp.NewToolResultText(taskJSON(task)), nil
		}))
}

func registerUpdateTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_update_task",
		mcp.WithDescription("Update an existing task. Only the provided fields change."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New task title"),
		),
		mcp.WithString("content",
			mcp.Description("New task description/notes"),
		),
		mcp.WithString("dueDate",
			mcp.Description("New due date as YYYY-MM-DD or an ISO 8601 datetime"),
		),
		mcp.WithString("priority",
			mcp.Description("New priority level: none, low, medium, or high"),
		),
		mcp.WithString("projectId",
			mcp.Description("Move the task to this project"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_update_task", instrumentation.EndpointTask, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskID, err := common.RequiredStringArg(args, "taskId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			priority, err := priorityFromArgs(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := client.UpdateTask(ctx, taskID, ticktick.TaskInput{
				Title:     common.StringArg(args, "title"),
				Content:   common.StringArg(args, "content"),
				DueDate:   common.StringArg(args, "dueDate"),
				ProjectID: common.StringArg(args, "projectId"),
				Priority:  priority,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task %s: %v", taskID, err)), nil
			}

			return mcp.NewToolResultText(taskJSON(task)), nil
		}))
}

func registerDeleteTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_delete_tasks",
		mcp.WithDescription("Delete one or more tasks. Accepts a single task ID or an array of task IDs; each ID is processed independently."),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("A task ID or an array of task IDs to delete"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_delete_tasks", instrumentation.EndpointTask, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				if err := client.DeleteTask(ctx, taskID); err != nil {
					return "", err
				}
				return "Task deleted successfully", nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

func registerGetTaskDetails(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_get_task_details",
		mcp.WithDescription("Get the full details of a task by ID"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_get_task_details", instrumentation.EndpointSync, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskID, err := common.RequiredStringArg(args, "taskId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := client.GetTask(ctx, taskID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get task %s: %v", taskID, err)), nil
			}

			return mcp.NewToolResultText(taskJSON(task)), nil
		}))
}

func registerCompleteTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_complete_tasks",
		mcp.WithDescription("Mark one or more tasks as completed. Accepts a single task ID or an array of task IDs."),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("A task ID or an array of task IDs to mark completed"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_complete_tasks", instrumentation.EndpointBatch, instrumentation.OperationComplete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				if _, err := client.CompleteTask(ctx, taskID); err != nil {
					return "", err
				}
				return "Task marked as completed", nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

func registerIncompleteTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_incomplete_tasks",
		mcp.WithDescription("Mark one or more completed tasks as incomplete again. Accepts a single task ID or an array of task IDs."),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("A task ID or an array of task IDs to mark incomplete"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_incomplete_tasks", instrumentation.EndpointBatch, instrumentation.OperationIncomplete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				if _, err := client.IncompleteTask(ctx, taskID); err != nil {
					return "", err
				}
				return "Task marked as incomplete", nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

func registerSearchTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_search_tasks",
		mcp.WithDescription("Search tasks by keyword. Matches task titles and content, case-insensitively."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keyword"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matches to return (default: all)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_search_tasks", instrumentation.EndpointSync, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			query, err := common.RequiredStringArg(args, "query")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			limit, err := common.IntArg(args, "limit", 0)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.Client()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			matches, err := client.SearchTasks(ctx, query, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search tasks: %v", err)), nil
			}

			return mcp.NewToolResultText(tasksJSON(matches)), nil
		}))
}
