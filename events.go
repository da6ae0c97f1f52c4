package ormtrace

import "context"

// Cursor describes the driver cursor that executed a statement.
// database/sql results satisfy this shape once their error returns are
// resolved by the host.
type Cursor interface {
	// LastInsertID returns the id generated by the statement, if any.
	LastInsertID() int64

	// RowsAffected returns the number of rows changed by the statement.
	RowsAffected() int64
}

// QueryEvent describes one statement execution. It is ephemeral: the
// listeners read it during a hook invocation and never retain it.
type QueryEvent struct {
	// Conn identifies the connection executing the statement. It is
	// passed through opaquely.
	Conn any

	// Cursor is the driver cursor for this execution, or nil when the
	// host has none to report.
	Cursor Cursor

	// Statement is the raw SQL text.
	Statement string

	// Params carries the bind parameters in one of three shapes; see
	// Params.
	Params Params

	// Batch reports whether the statement ran as part of a batch
	// execution (executemany-style).
	Batch bool
}

// ErrorEvent describes a statement failure. The original error always
// propagates to the caller through the host; the listeners only record it.
type ErrorEvent struct {
	// Err is the original failure.
	Err error

	// Conn, Cursor, Statement and Params mirror the QueryEvent fields
	// of the failed execution.
	Conn      any
	Cursor    Cursor
	Statement string
	Params    Params

	// Disconnect reports whether the host treats the failure as a lost
	// connection.
	Disconnect bool
}

// Hook signatures consumed from the host ORM engine's event source.
// BeforeExecuteFunc returns a derived context that the host must thread
// to the matching after or error hook; it carries the per-execution span
// state.
type (
	BeforeExecuteFunc  func(ctx context.Context, ev QueryEvent) context.Context
	AfterExecuteFunc   func(ctx context.Context, ev QueryEvent)
	StatementErrorFunc func(ctx context.Context, ev ErrorEvent)
)

// EventSource is the statement event bus of a host ORM engine. Each
// subscription returns a remove function that detaches exactly the hook
// it registered, so teardown never depends on global lookup.
type EventSource interface {
	OnBeforeExecute(fn BeforeExecuteFunc) (remove func())
	OnAfterExecute(fn AfterExecuteFunc) (remove func())
	OnStatementError(fn StatementErrorFunc) (remove func())
}
