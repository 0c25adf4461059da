// Package logger sets up the JSON slog logger and carries request-scoped
// loggers and request IDs through context.Context.
package logger
