package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with user identifiers.

// ExtractUserDomain extracts the domain part from an email-style username.
// This reduces cardinality by using the domain instead of the full address.
//
// Example:
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
//	ExtractUserDomain("")                  // "unknown"
func ExtractUserDomain(username string) string {
	if username == "" {
		return "unknown"
	}

	parts := strings.Split(username, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for TickTick API metrics.
// Status, Auth, and Endpoint constants are defined in config.go.
const (
	OperationList       = "list"
	OperationGet        = "get"
	OperationCreate     = "create"
	OperationUpdate     = "update"
	OperationDelete     = "delete"
	OperationComplete   = "complete"
	OperationIncomplete = "incomplete"
	OperationSearch     = "search"
	OperationSignon     = "signon"
	OperationSync       = "sync"
)
