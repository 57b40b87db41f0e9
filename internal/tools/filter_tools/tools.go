package filter_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
	"github.com/jaeyeom/ticktick-mcp/internal/server"
	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/batch"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/common"
)

func tasksJSON(tasks []ticktick.Task) string {
	if tasks == nil {
		tasks = []ticktick.Task{}
	}
	data, _ := json.MarshalIndent(tasks, "", "  ")
	return string(data)
}

// fetchTasks acquires the client and loads the full task list. Every filter
// tool works on a fresh snapshot so results reflect the current account state.
func fetchTasks(ctx context.Context, sc *server.ServerContext) ([]ticktick.Task, error) {
	client, err := sc.Client()
	if err != nil {
		return nil, err
	}
	tasks, err := client.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// RegisterFilterTools registers the task filtering and date-window tools
// with the MCP server.
func RegisterFilterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerFilterByStatus(s, sc)
	registerFilterByPriority(s, sc)
	registerFilterByDueDate(s, sc)
	registerFilterByProject(s, sc)
	registerFilterByTags(s, sc)
	registerOverdueTasks(s, sc)
	registerTodayTasks(s, sc)
	registerUpcomingTasks(s, sc)
	return nil
}

func registerFilterByStatus(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_filter_tasks_by_status",
		mcp.WithDescription("List tasks filtered by completion status"),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("Completion status to match: completed or incomplete"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_filter_tasks_by_status", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			status, err := common.RequiredStringArg(args, "status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			code, ok := ticktick.ParseStatus(status)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("invalid status %q: must be completed or incomplete", status)), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByStatus(tasks, code == ticktick.StatusCompleted))), nil
		}))
}

func registerFilterByPriority(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_filter_tasks_by_priority",
		mcp.WithDescription("List tasks filtered by priority level"),
		mcp.WithString("priority",
			mcp.Required(),
			mcp.Description("Priority level to match: none, low, medium, or high"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_filter_tasks_by_priority", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			priority, err := common.RequiredStringArg(args, "priority")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			level, ok := ticktick.ParsePriority(priority)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("invalid priority %q: must be none, low, medium, or high", priority)), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByPriority(tasks, level))), nil
		}))
}

func registerFilterByDueDate(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_filter_tasks_by_due_date",
		mcp.WithDescription("List tasks due on a specific calendar day"),
		mcp.WithString("dueDate",
			mcp.Required(),
			mcp.Description("The day to match, as YYYY-MM-DD"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_filter_tasks_by_due_date", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			dueDate, err := common.RequiredStringArg(args, "dueDate")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			day, err := time.Parse("2006-01-02", dueDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", dueDate)), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByDueDate(tasks, day))), nil
		}))
}

func registerFilterByProject(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_filter_tasks_by_project",
		mcp.WithDescription("List tasks belonging to a specific project"),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project ID to match"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_filter_tasks_by_project", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			projectID, err := common.RequiredStringArg(args, "projectId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByProject(tasks, projectID))), nil
		}))
}

func registerFilterByTags(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_filter_tasks_by_tags",
		mcp.WithDescription("List tasks carrying at least one of the given tags. Accepts a single tag or an array of tags."),
		mcp.WithString("tags",
			mcp.Required(),
			mcp.Description("A tag name or an array of tag names to match"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_filter_tasks_by_tags", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			tags, err := batch.ParseStringOrArray(args["tags"], "tags")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByTags(tasks, tags))), nil
		}))
}

func registerOverdueTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_get_overdue_tasks",
		mcp.WithDescription("List incomplete tasks whose due date has already passed"),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_get_overdue_tasks", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(overdueTasks(tasks, time.Now()))), nil
		}))
}

func registerTodayTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_get_today_tasks",
		mcp.WithDescription("List tasks due today"),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_get_today_tasks", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(filterByDueDate(tasks, time.Now()))), nil
		}))
}

func registerUpcomingTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_get_upcoming_tasks",
		mcp.WithDescription("List incomplete tasks due within the next N days"),
		mcp.WithNumber("days",
			mcp.Description("Size of the look-ahead window in days (default: 7)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithEndpoint(
		"ticktick_get_upcoming_tasks", instrumentation.EndpointSync, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			days, err := common.IntArg(args, "days", 7)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if days < 0 {
				return mcp.NewToolResultError(fmt.Sprintf("invalid days %d: must not be negative", days)), nil
			}

			tasks, err := fetchTasks(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(tasksJSON(upcomingTasks(tasks, time.Now(), days))), nil
		}))
}
