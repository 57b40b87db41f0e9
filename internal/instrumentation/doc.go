// Package instrumentation provides OpenTelemetry-based observability for the
// ticktick-mcp server.
//
// It covers three concerns:
//
//   - Metrics: counters and histograms for HTTP requests, TickTick API
//     operations, OAuth flows, and MCP tool invocations. Exported via
//     Prometheus (default), OTLP, or stdout.
//   - Tracing: spans for tool invocations and upstream API calls. Disabled
//     by default; enable via TRACING_EXPORTER.
//   - Audit logging: a structured record of every tool invocation with
//     configurable PII handling.
//
// # Configuration
//
// Configuration comes from environment variables with sensible defaults; see
// DefaultConfig. The most relevant knobs:
//
//	INSTRUMENTATION_ENABLED    enable/disable everything (default: true)
//	METRICS_EXPORTER           prometheus | otlp | stdout (default: prometheus)
//	TRACING_EXPORTER           otlp | stdout | none (default: none)
//	OTEL_EXPORTER_OTLP_ENDPOINT  collector endpoint for otlp exporters
//	METRICS_DETAILED_LABELS    include high-cardinality labels (default: false)
//	AUDIT_LOGGING_ENABLED      enable audit logging (default: true)
//	AUDIT_LOGGING_INCLUDE_PII  log full account usernames (default: false)
//
// # Cardinality
//
// Metric labels are kept low-cardinality by default. User identities only
// appear as labels when METRICS_DETAILED_LABELS is set, and then only in
// anonymized form.
package instrumentation
