// Package cmd implements the command-line interface for ticktick-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - auth: Run the one-time TickTick OAuth flow and cache the token
//   - healthcheck: Probe a running server's health endpoint
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
