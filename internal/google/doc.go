// Package google handles the OAuth flow against Google for CLI usage.
// It is a collaborator of the pipeline, not part of it: the pipeline
// only ever sees the resulting bearer token. Server deployments skip
// this package entirely and pass tokens per request.
package google
