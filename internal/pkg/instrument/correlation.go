package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// HeaderCorrelationID carries the correlation ID on HTTP responses and
// outgoing broker messages.
const HeaderCorrelationID = "X-Correlation-ID"

type correlationKey struct{}

// SetCorrelationID stores the request correlation ID in ctx.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID returns the correlation ID stored in ctx, or "" when absent.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Carrier returns the headers a downstream consumer needs to join this
// request: the correlation ID plus the W3C trace context of the active span.
func Carrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	if id := GetCorrelationID(ctx); id != "" {
		carrier[HeaderCorrelationID] = id
	}

	return carrier
}
