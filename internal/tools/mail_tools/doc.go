// Package mail_tools exposes the retrieve and classify operations as
// MCP tools so AI agents can drive the pipeline over stdio. Tool
// failures are reported as tool results, not protocol errors.
package mail_tools
