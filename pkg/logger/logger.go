package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextExtractor pulls one slog attribute out of a context, returning false
// when the value is absent.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// RequestID extracts the chi middleware request ID.
func RequestID(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

// New creates a JSON logger writing to stdout with the given context
// extractors applied to every record.
func New(extractors ...ContextExtractor) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(decorate(handler, extractors))
}

// NewNope creates a logger that discards all output. Use as a default when
// logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decorated injects context-extracted attributes per log call, so
// request-scoped values stay fresh.
type decorated struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func decorate(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &decorated{next: next, extractors: clean}
}

func (h *decorated) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *decorated) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *decorated) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &decorated{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *decorated) WithGroup(name string) slog.Handler {
	return &decorated{next: h.next.WithGroup(name), extractors: h.extractors}
}
