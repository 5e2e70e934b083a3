//go:build !otel
// +build !otel

package metrics

import "context"

// OTelTracer is the stand-in used by default builds. Selecting the otel
// tracing backend then degrades to no-op spans; build with -tags otel to get
// real OpenTelemetry export.
type OTelTracer struct{}

// NewOTelTracer returns the stand-in tracer. The service name is accepted
// for signature parity with the otel build and ignored.
func NewOTelTracer(serviceName string) *OTelTracer {
	return &OTelTracer{}
}

// StartSpan returns the context unchanged and a no-op SpanEnder.
func (t *OTelTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	return ctx, func(err error) {}
}

// OTelEnabled reports whether OpenTelemetry support is built in.
func OTelEnabled() bool {
	return false
}
