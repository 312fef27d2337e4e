// Package pipeline composes the mailbox fetcher and the classifier
// into the two operations every surface (HTTP API, MCP tools, CLI)
// shares: retrieve a batch of messages for a bearer token, and classify
// a batch of messages with a model API key.
//
// The two operations are independently invocable and stateless; every
// invocation is self-contained given its explicit arguments, and
// classification never refetches.
package pipeline
