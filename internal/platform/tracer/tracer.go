// Package tracer is a thin tracing seam over OpenTelemetry so services can
// emit spans without importing otel APIs directly.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span; a non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanGetUser     = "user.get"
	SpanOrderLookup = "orders.lookup"
)

// Attribute keys.
const (
	AttrUserID         = "user.id"
	AttrOrderCount     = "orders.count"
	AttrDegraded       = "orders.degraded"
	AttrDegradedReason = "orders.degraded_reason"
	AttrLatency        = "orders.latency_ms"
)

// Event names.
const (
	EventCircuitOpen = "circuit.open"
)
