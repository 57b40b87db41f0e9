// Package server holds the runtime pieces of the MCP server: the shared
// ServerContext (configuration plus the lazily initialized TickTick client),
// the HTTP transport that serves the streamable MCP protocol alongside the
// health endpoints, the health checker itself, and the dedicated Prometheus
// metrics server.
//
// The MCP protocol handling itself comes from github.com/mark3labs/mcp-go;
// this package only wires it to listeners and process state.
package server
