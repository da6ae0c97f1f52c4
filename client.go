package ormtrace

// Span-start context fields.
const (
	// SpanName is the name given to every statement span.
	SpanName = "sqlalchemy_query"

	// SpanType marks statement spans as database work.
	SpanType = "db"

	// FieldName and FieldType carry the span name and type in the
	// span-start context mapping.
	FieldName = "name"
	FieldType = "type"

	// FieldQuery holds the statement text.
	FieldQuery = "db.query"

	// FieldQueryArgs holds the serialized bind parameters ([]string).
	FieldQueryArgs = "db.query_args"
)

// Post-execution context fields.
const (
	// FieldDuration holds the statement duration in floating-point
	// milliseconds.
	FieldDuration = "db.duration"

	// FieldLastInsertID holds the cursor's last insert id.
	FieldLastInsertID = "db.last_insert_id"

	// FieldRowsAffected holds the cursor's affected row count.
	FieldRowsAffected = "db.rows_affected"

	// FieldError holds the stringified statement failure.
	FieldError = "db.error"
)

// Span is an opaque handle to one traced operation. It is produced by
// Client.StartSpan, owned by the listeners while the statement is in
// flight, and handed back unmodified to Client.FinishSpan. It is never
// inspected.
type Span any

// Fields is a set of context fields attached to spans.
type Fields map[string]any

// Client is the tracing client the listeners report to. The client owns
// span storage and transport; the listeners only drive its lifecycle.
//
// A compatible OpenTelemetry-backed implementation lives in
// tracing/otelclient.
type Client interface {
	// StartSpan opens a span with the given context fields and returns
	// its handle.
	StartSpan(fields Fields) Span

	// FinishSpan closes a span previously returned by StartSpan.
	FinishSpan(span Span)

	// AddContext attaches fields to the client's current trace context.
	AddContext(fields Fields)

	// AddContextField attaches a single field to the client's current
	// trace context.
	AddContextField(key string, value any)

	// StringifyException renders an error for the db.error field.
	StringifyException(err error) string
}
