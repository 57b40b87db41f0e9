package convert_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jaeyeom/ticktick-mcp/internal/server"
	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/common"
)

// RegisterConvertTools registers the datetime conversion and healthcheck
// tools with the MCP server.
func RegisterConvertTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerConvertDatetime(s, sc)
	registerHealthcheck(s, sc)
	return nil
}

func registerConvertDatetime(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("ticktick_convert_datetime_to_ticktick_format",
		mcp.WithDescription("Convert an ISO 8601 datetime string to the format the TickTick API expects"),
		mcp.WithString("datetime_iso_string",
			mcp.Required(),
			mcp.Description("The datetime to convert, e.g. 2025-03-15T14:30:00 or 2025-03-15T14:30:00+02:00"),
		),
		mcp.WithString("tz",
			mcp.Description("IANA timezone name used when the datetime carries no offset (default: UTC)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandler(
		"ticktick_convert_datetime_to_ticktick_format", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			isoString, err := common.RequiredStringArg(args, "datetime_iso_string")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tz := common.StringArg(args, "tz")
			if tz == "" {
				tz = "UTC"
			}

			formatted, err := ticktick.FormatDateTime(isoString, tz)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to convert datetime: %v", err)), nil
			}

			return mcp.NewToolResultText(formatted), nil
		}))
}

func registerHealthcheck(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("healthcheck",
		mcp.WithDescription("Check that the MCP server process is healthy. Never contacts the TickTick API."),
	)

	s.AddTool(tool, common.InstrumentedToolHandler(
		"healthcheck", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			// Reports on the server process only, so the probe works
			// even when the upstream credentials are bad.
			data, _ := json.Marshal(map[string]string{
				"status":  "ok",
				"message": "TickTick MCP server is healthy",
			})
			return mcp.NewToolResultText(string(data)), nil
		}))
}
