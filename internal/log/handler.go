package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/shelflife/pkg/correlationid"
)

// contextAttrs pulls request-scoped attributes out of a context.
type contextAttrs func(ctx context.Context) []slog.Attr

var defaultContextAttrs = []contextAttrs{correlationAttrs, traceAttrs}

func correlationAttrs(ctx context.Context) []slog.Attr {
	id, ok := correlationid.FromContext(ctx)
	if !ok {
		return nil
	}
	return []slog.Attr{slog.String("correlation_id", id)}
}

func traceAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}

var _ slog.Handler = contextHandler{}

// contextHandler adds the attributes found in the record's context before
// delegating to the wrapped handler.
type contextHandler struct {
	next    slog.Handler
	sources []contextAttrs
}

func newContextHandler(next slog.Handler, sources ...contextAttrs) contextHandler {
	return contextHandler{next: next, sources: sources}
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, source := range h.sources {
		r.AddAttrs(source(ctx)...)
	}
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newContextHandler(h.next.WithAttrs(attrs), h.sources...)
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return newContextHandler(h.next.WithGroup(name), h.sources...)
}
