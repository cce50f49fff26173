// Package logging builds the slog loggers shared by the CLI, the HTTP
// server, and the MCP stdio transport.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger. It always writes to Stderr:
// Stdout carries the conversation UI in CLI mode and JSON-RPC frames in
// MCP stdio mode, so log lines must never land there. Common keys are
// standardized (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything, the default for
// library components until a caller injects its own.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
