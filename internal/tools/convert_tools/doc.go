// Package convert_tools provides utility MCP tools that need no TickTick
// account access.
//
// # Available Tools
//
//   - ticktick_convert_datetime_to_ticktick_format: Convert an ISO 8601
//     datetime to the 'YYYY-MM-DDTHH:mm:ss.fff+ZZZZ' layout the TickTick
//     API expects
//   - healthcheck: Report server process health without contacting the
//     TickTick API, suitable for container health probes
package convert_tools
