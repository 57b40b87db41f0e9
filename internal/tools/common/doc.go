// Package common provides shared utilities for MCP tool implementations:
// argument extraction helpers and the instrumentation wrapper that records
// metrics and audit logs around tool handlers.
package common
