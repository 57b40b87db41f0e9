// Package batch provides helpers for tools that accept one task ID or a
// list of task IDs in the same parameter. Each ID is processed
// independently; per-ID successes and failures are aggregated into a single
// JSON result so one bad ID does not abort the rest of the batch.
package batch
