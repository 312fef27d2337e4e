// Package secrets stores the model API key outside the pipeline. The
// pipeline itself never persists credentials; the CLI resolves the key
// from an explicit flag, the system keyring, or the environment, in
// that order, and hands it to each invocation.
package secrets
