// Package logging provides structured logging utilities for mailsift.
//
// It centralizes attribute naming for the fetch/classify pipeline on
// top of the standard library's slog package and keeps credentials out
// of log output: bearer tokens and model API keys are only ever logged
// through SanitizeToken, and sender addresses through AnonymizeSender.
package logging
