package convert_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
	"github.com/jaeyeom/ticktick-mcp/internal/server"
)

// newToolServer builds an MCP server with the convert tools registered and
// deliberately bogus credentials, so tests prove the tools never reach the
// TickTick API.
func newToolServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(), &config.Config{
		Username: "nobody@example.com",
		Password: "wrong",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("ticktick-mcp-test", "0.0.0")
	require.NoError(t, RegisterConvertTools(s, sc))
	return s
}

// callTool issues a tools/call JSON-RPC message and returns the text of the
// first content block plus the isError flag.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  params,
	})
	require.NoError(t, err)

	raw := s.HandleMessage(context.Background(), msg)
	resp, ok := raw.(mcp.JSONRPCResponse)
	require.True(t, ok, "expected JSON-RPC response, got %T: %v", raw, raw)

	result, ok := resp.Result.(mcp.CallToolResult)
	require.True(t, ok, "expected tool result, got %T", resp.Result)
	require.NotEmpty(t, result.Content)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func TestHealthcheckSucceedsWithoutUpstream(t *testing.T) {
	s := newToolServer(t)

	text, isError := callTool(t, s, "healthcheck", nil)
	assert.False(t, isError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "TickTick MCP server is healthy", payload["message"])
}

func TestConvertDatetime(t *testing.T) {
	s := newToolServer(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		want    string
		wantErr string
	}{
		{
			name: "naive datetime defaults to UTC",
			args: map[string]interface{}{"datetime_iso_string": "2025-03-15T14:30:00"},
			want: "2025-03-15T14:30:00.000+0000",
		},
		{
			name: "naive datetime in named zone",
			args: map[string]interface{}{
				"datetime_iso_string": "2025-07-15T14:30:00",
				"tz":                  "America/New_York",
			},
			want: "2025-07-15T14:30:00.000-0400",
		},
		{
			name: "explicit offset wins over tz",
			args: map[string]interface{}{
				"datetime_iso_string": "2025-03-15T14:30:00+05:30",
				"tz":                  "America/New_York",
			},
			want: "2025-03-15T14:30:00.000+0530",
		},
		{
			name: "bare date",
			args: map[string]interface{}{"datetime_iso_string": "2025-03-15"},
			want: "2025-03-15T00:00:00.000+0000",
		},
		{
			name:    "missing argument",
			args:    map[string]interface{}{},
			wantErr: "datetime_iso_string is required",
		},
		{
			name:    "invalid datetime",
			args:    map[string]interface{}{"datetime_iso_string": "not-a-date"},
			wantErr: "Failed to convert datetime",
		},
		{
			name: "invalid timezone",
			args: map[string]interface{}{
				"datetime_iso_string": "2025-03-15T14:30:00",
				"tz":                  "Mars/Olympus_Mons",
			},
			wantErr: "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := callTool(t, s, "ticktick_convert_datetime_to_ticktick_format", tt.args)
			if tt.wantErr != "" {
				assert.True(t, isError, "expected error result, got %q", text)
				assert.Contains(t, text, tt.wantErr)
				return
			}
			require.False(t, isError, "unexpected error result: %s", text)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestToolsAreListed(t *testing.T) {
	s := newToolServer(t)

	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	require.NoError(t, err)

	raw := s.HandleMessage(context.Background(), msg)
	resp, ok := raw.(mcp.JSONRPCResponse)
	require.True(t, ok, "expected JSON-RPC response, got %T", raw)

	result, ok := resp.Result.(mcp.ListToolsResult)
	require.True(t, ok, "expected tool list, got %T", resp.Result)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"healthcheck", "ticktick_convert_datetime_to_ticktick_format"} {
		assert.True(t, names[want], fmt.Sprintf("tool %s not registered", want))
	}
}
