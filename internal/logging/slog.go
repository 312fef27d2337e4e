package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyCount     = "count"
	KeyFailed    = "failed"
	KeyCategory  = "category"
	KeyDuration  = "duration"
	KeyTool      = "tool"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Count returns a slog attribute for a batch size.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Failed returns a slog attribute for the number of failed items.
func Failed(n int) slog.Attr {
	return slog.Int(KeyFailed, n)
}

// Category returns a slog attribute for a classification label.
func Category(c string) slog.Attr {
	return slog.String(KeyCategory, c)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Tool returns a slog attribute for an MCP tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Err returns a slog attribute for an error. If err is nil, returns an
// empty Group attribute that will be omitted from output, so
// Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a masked version of a credential for logging.
// Only a length indicator is exposed; even partial prefixes can aid
// attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// AnonymizeSender returns a hashed representation of a sender address
// for logging. This allows correlation of log entries without exposing
// PII.
func AnonymizeSender(from string) string {
	if from == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(from))
	return "sender:" + hex.EncodeToString(hash[:8])
}
