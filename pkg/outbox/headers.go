// Package outbox carries request context across the transactional outbox.
// Headers are captured when a message is enqueued and restored by the consumer.
package outbox

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/shelflife/pkg/correlationid"
)

// HeaderEnqueuedAt holds the RFC 3339 time the message entered the outbox.
const HeaderEnqueuedAt = "x-enqueued-at"

// BuildHeaders captures the trace context and correlation id of ctx.
func BuildHeaders(ctx context.Context) map[string]string {
	headers := propagation.MapCarrier{
		HeaderEnqueuedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	otel.GetTextMapPropagator().Inject(ctx, headers)

	if id, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = id
	}

	return headers
}

// ExtractContextFromHeaders returns ctx extended with the trace context and
// correlation id found in headers.
func ExtractContextFromHeaders(ctx context.Context, headers map[string]string) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if id, ok := headers[correlationid.Header]; ok && id != "" {
		ctx = correlationid.NewContext(ctx, id)
	}

	return ctx
}

// EnqueuedAt reports when the message was written to the outbox.
func EnqueuedAt(headers map[string]string) (time.Time, bool) {
	v, ok := headers[HeaderEnqueuedAt]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
