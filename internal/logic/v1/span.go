package v1

import (
	"context"

	"github.com/duynhne/social-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{attribute.String("layer", "logic")}, attrs...)
	return middleware.StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// nonNil keeps list responses encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
