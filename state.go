package ormtrace

import (
	"context"
	"time"
)

// executionState is the per-execution-context slot holding the open span
// and its start time. Outside of a hook transition in progress, span and
// start are either both set or both cleared.
type executionState struct {
	span  Span
	start time.Time
}

// open reports whether a span is currently recorded in the slot.
func (s *executionState) open() bool {
	return s.span != nil
}

// reset clears both fields in one step, returning the slot to idle.
func (s *executionState) reset() {
	s.span = nil
	s.start = time.Time{}
}

type stateCtxKey struct{}

// withState attaches a state slot to the execution context. The host
// threads the returned context from the before hook to the matching
// after or error hook, which makes isolation across concurrent
// executions structural: distinct contexts never share a slot.
func withState(ctx context.Context, st *executionState) context.Context {
	return context.WithValue(ctx, stateCtxKey{}, st)
}

// stateFrom returns the execution context's state slot, or nil when none
// has been attached yet.
func stateFrom(ctx context.Context) *executionState {
	st, _ := ctx.Value(stateCtxKey{}).(*executionState)
	return st
}
