// Package cmd contains the mailsift CLI commands. The fetch and
// classify commands drive the pipeline directly, serve exposes it over
// HTTP or MCP stdio, and auth/key manage the credentials the pipeline
// needs but never stores.
package cmd
