// Package logging provides structured logging utilities for the ticktick-mcp
// server.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (account username anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.list")
//	logger.Info("listing tasks",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("signed on",
//	    logging.UserHash(cfg.Username))
//
// # Security Considerations
//
// Account usernames are hashed so log entries can be correlated without
// exposing PII, and session or OAuth tokens are never logged directly.
package logging
