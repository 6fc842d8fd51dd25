package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/ssokit/slogate"

var tracer trace.Tracer = noop.NewTracerProvider().Tracer("noop")

// Setup binds the package tracer to the globally registered tracer provider.
// Without a registered provider the tracer stays a no-op.
func Setup() {
	tracer = otel.GetTracerProvider().Tracer(tracerName)
}

func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanName)
}
