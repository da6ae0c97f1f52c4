// Package ormtrace converts database-statement lifecycle events raised
// by a host ORM engine into trace spans reported to a tracing client.
//
// # Features
//
//   - Span per statement with db.query and db.query_args context fields
//   - Duration, last insert id and affected rows on completion
//   - db.error recording on statement failure
//   - Structural isolation of concurrent executions via context-local
//     span state
//   - Reentrancy detection with warn-and-abandon semantics
//   - Idempotent hook install/uninstall with explicit removal handles
//   - Statement duration histogram via OpenTelemetry metrics
//
// # Quick Start
//
// Wire the listeners between your engine's event bus and a tracing
// client:
//
//	client := otelclient.New()
//	listeners := ormtrace.New(client)
//	listeners.Install(engineEvents)
//	defer listeners.Uninstall()
//
// The host threads the context returned by the before hook to the
// matching after or error hook; the listeners keep each execution's span
// state on that context, so concurrent statements never observe each
// other's spans or durations.
//
// # Parameters
//
// Bind parameters are classified once, at the serialization boundary,
// into one of three shapes:
//
//	ormtrace.PositionalParams("x", 7, startedAt)
//	ormtrace.NamedParams(
//	    ormtrace.NamedParam{Name: "id", Value: 7},
//	    ormtrace.NamedParam{Name: "since", Value: startedAt},
//	)
//
// Each value is rendered to its display form (times as ISO-8601,
// everything else as its default textual form) and attached to the span
// as db.query_args.
//
// # Configuration Options
//
// Common options:
//
//	listeners := ormtrace.New(client,
//	    ormtrace.WithLogger(logger),                              // overlap warnings
//	    ormtrace.WithQuerySanitizer(ormtrace.DefaultQuerySanitizer), // mask literals
//	    ormtrace.WithDisableQueryArgs(),                          // omit bind values
//	    ormtrace.WithMeterProvider(mp),                           // duration histogram
//	)
//
// # Error Handling
//
// Hooks never fail. A statement failure reaches the listeners through
// the error hook, is recorded as db.error, and then propagates to the
// caller unmodified. The only locally handled condition is an
// overlapping before event, which is absorbed and surfaced as a
// warning.
package ormtrace
