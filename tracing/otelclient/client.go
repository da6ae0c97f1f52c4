// Package otelclient provides an ormtrace.Client backed by the
// OpenTelemetry trace API.
//
// Spans carry the span-start mapping's "name" field as their span name;
// every other field becomes a span attribute. AddContext and
// AddContextField apply to the most recently started span that is still
// open, which matches the listeners' enrich-then-finish discipline.
package otelclient

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ormtrace "github.com/hivetrace/ormtrace-go"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/hivetrace/ormtrace-go/tracing/otelclient"

// Compile-time interface check.
var _ ormtrace.Client = (*Client)(nil)

// Client reports statement spans through an OpenTelemetry tracer.
type Client struct {
	provider trace.TracerProvider
	tracer   trace.Tracer

	mu   sync.Mutex
	open []trace.Span // open spans, most recently started last
}

// Option configures the client.
type Option func(*Client)

// WithTracerProvider sets a custom tracer provider. If not called, the
// global provider from otel.GetTracerProvider() is used; with no global
// provider configured, spans are no-ops.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.provider = tp
	}
}

// New returns a client that creates spans via OpenTelemetry.
func New(opts ...Option) *Client {
	c := &Client{
		provider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.tracer = c.provider.Tracer(scope)

	return c
}

// StartSpan implements ormtrace.Client.
func (c *Client) StartSpan(fields ormtrace.Fields) ormtrace.Span {
	name, _ := fields[ormtrace.FieldName].(string)
	if name == "" {
		name = ormtrace.SpanName
	}

	_, span := c.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attributesFrom(fields)...),
	)

	c.mu.Lock()
	c.open = append(c.open, span)
	c.mu.Unlock()

	return span
}

// FinishSpan implements ormtrace.Client.
func (c *Client) FinishSpan(span ormtrace.Span) {
	s, ok := span.(trace.Span)
	if !ok {
		return
	}

	c.mu.Lock()
	for i := len(c.open) - 1; i >= 0; i-- {
		if c.open[i] == s {
			c.open = append(c.open[:i], c.open[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	s.End()
}

// AddContext implements ormtrace.Client.
func (c *Client) AddContext(fields ormtrace.Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.open) == 0 {
		return
	}
	c.open[len(c.open)-1].SetAttributes(attributesFrom(fields)...)
}

// AddContextField implements ormtrace.Client.
func (c *Client) AddContextField(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.open) == 0 {
		return
	}
	c.open[len(c.open)-1].SetAttributes(anyAttribute(key, value))
}

// StringifyException implements ormtrace.Client.
func (c *Client) StringifyException(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// attributesFrom converts context fields to span attributes. The span
// name field is dropped: it already names the span.
func attributesFrom(fields ormtrace.Fields) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for k, v := range fields {
		if k == ormtrace.FieldName {
			continue
		}
		attrs = append(attrs, anyAttribute(k, v))
	}
	return attrs
}

// anyAttribute converts one field to a span attribute, falling back to
// the value's textual form for types OpenTelemetry has no slot for.
func anyAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
