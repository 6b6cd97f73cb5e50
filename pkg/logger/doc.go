// Package logger builds the service's slog loggers: JSON to stdout, an
// optional Sentry handler for warnings and errors, and per-request attribute
// injection from the context (request IDs set by the HTTP middleware).
package logger
