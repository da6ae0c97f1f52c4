// Package eventbus provides a minimal in-process statement event bus
// implementing ormtrace.EventSource. Event dispatch is normally the host
// engine's concern; this bus exists for hosts without a handle-based
// event API, and for tests and examples.
package eventbus

import (
	"context"
	"sync"

	ormtrace "github.com/hivetrace/ormtrace-go"
)

// Compile-time interface check.
var _ ormtrace.EventSource = (*Bus)(nil)

type beforeEntry struct {
	id uint64
	fn ormtrace.BeforeExecuteFunc
}

type afterEntry struct {
	id uint64
	fn ormtrace.AfterExecuteFunc
}

type errorEntry struct {
	id uint64
	fn ormtrace.StatementErrorFunc
}

// Bus dispatches statement lifecycle events to subscribed hooks in
// registration order. Safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	before []beforeEntry
	after  []afterEntry
	errs   []errorEntry
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{}
}

// OnBeforeExecute subscribes a before hook. The returned function removes
// exactly this subscription; calling it more than once is harmless.
func (b *Bus) OnBeforeExecute(fn ormtrace.BeforeExecuteFunc) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.before = append(b.before, beforeEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.before {
			if e.id == id {
				b.before = append(b.before[:i], b.before[i+1:]...)
				return
			}
		}
	}
}

// OnAfterExecute subscribes an after hook.
func (b *Bus) OnAfterExecute(fn ormtrace.AfterExecuteFunc) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.after = append(b.after, afterEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.after {
			if e.id == id {
				b.after = append(b.after[:i], b.after[i+1:]...)
				return
			}
		}
	}
}

// OnStatementError subscribes an error hook.
func (b *Bus) OnStatementError(fn ormtrace.StatementErrorFunc) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.errs = append(b.errs, errorEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.errs {
			if e.id == id {
				b.errs = append(b.errs[:i], b.errs[i+1:]...)
				return
			}
		}
	}
}

// EmitBeforeExecute invokes the before hooks in registration order,
// threading the context each hook returns into the next. The host must
// pass the returned context to the matching EmitAfterExecute or
// EmitStatementError call.
func (b *Bus) EmitBeforeExecute(ctx context.Context, ev ormtrace.QueryEvent) context.Context {
	b.mu.RLock()
	hooks := make([]beforeEntry, len(b.before))
	copy(hooks, b.before)
	b.mu.RUnlock()

	for _, e := range hooks {
		ctx = e.fn(ctx, ev)
	}
	return ctx
}

// EmitAfterExecute invokes the after hooks in registration order.
func (b *Bus) EmitAfterExecute(ctx context.Context, ev ormtrace.QueryEvent) {
	b.mu.RLock()
	hooks := make([]afterEntry, len(b.after))
	copy(hooks, b.after)
	b.mu.RUnlock()

	for _, e := range hooks {
		e.fn(ctx, ev)
	}
}

// EmitStatementError invokes the error hooks in registration order.
func (b *Bus) EmitStatementError(ctx context.Context, ev ormtrace.ErrorEvent) {
	b.mu.RLock()
	hooks := make([]errorEntry, len(b.errs))
	copy(hooks, b.errs)
	b.mu.RUnlock()

	for _, e := range hooks {
		e.fn(ctx, ev)
	}
}

// Len reports the number of subscribed hooks per event, in the order
// before, after, error.
func (b *Bus) Len() (before, after, errs int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.before), len(b.after), len(b.errs)
}
