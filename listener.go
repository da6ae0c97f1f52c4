package ormtrace

import (
	"context"
	"sync"
	"time"
)

// Listeners converts statement lifecycle events from a host ORM engine
// into spans on a tracing Client. Per execution context it cycles between
// two states: idle (no span recorded) and span-open (span and start time
// recorded together). The hooks run inline on the caller's goroutine and
// never block, never return errors, and never swallow the statement's
// own failure.
type Listeners struct {
	client Client
	cfg    *config

	mu        sync.Mutex
	installed bool
	removes   []func()
}

// New returns listeners reporting to the given tracing client.
func New(client Client, opts ...Option) *Listeners {
	return &Listeners{
		client: client,
		cfg:    newConfig(opts...),
	}
}

// Install registers the three hooks with the event source. Installing
// while already installed is a successful no-op; the hooks are never
// registered twice.
func (l *Listeners) Install(src EventSource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.installed {
		return
	}

	l.removes = []func(){
		src.OnBeforeExecute(l.BeforeExecute),
		src.OnAfterExecute(l.AfterExecute),
		src.OnStatementError(l.OnError),
	}
	l.installed = true
}

// Uninstall removes the hooks registered by Install. Uninstalling while
// not installed is a no-op.
func (l *Listeners) Uninstall() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.installed {
		return
	}

	for _, remove := range l.removes {
		remove()
	}
	l.removes = nil
	l.installed = false
}

// Installed reports whether the hooks are currently registered.
func (l *Listeners) Installed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.installed
}

// BeforeExecute opens a span for the statement about to run. The
// returned context carries the execution's span state and must be
// threaded to the matching AfterExecute or OnError call.
//
// If a span is already open on this execution context (reentrancy, or a
// missed reset), a warning is logged and no second span is started; the
// existing span is left exactly as recorded.
func (l *Listeners) BeforeExecute(ctx context.Context, ev QueryEvent) context.Context {
	st := stateFrom(ctx)
	if st != nil && st.open() {
		l.cfg.Logger.Warn().
			Str("statement", ev.Statement).
			Msg("statement span already open on this execution context, skipping span creation")
		return ctx
	}

	if st == nil {
		st = &executionState{}
		ctx = withState(ctx, st)
	}

	args := []string{}
	if !l.cfg.DisableQueryArgs {
		args = ev.Params.Serialize()
	}

	statement := ev.Statement
	if l.cfg.QuerySanitizer != nil {
		statement = l.cfg.QuerySanitizer(statement)
	}

	span := l.client.StartSpan(Fields{
		FieldName:      SpanName,
		FieldType:      SpanType,
		FieldQuery:     statement,
		FieldQueryArgs: args,
	})

	st.span = span
	st.start = l.cfg.Clock.Now()

	return ctx
}

// AfterExecute reports duration and cursor results for a completed
// statement, finishes its span, and returns the execution context to
// idle. A missing start time or span is not an error: each field is
// guarded independently so a dropped before event cannot cascade.
func (l *Listeners) AfterExecute(ctx context.Context, ev QueryEvent) {
	st := stateFrom(ctx)
	if st == nil {
		return
	}
	defer st.reset()

	if !st.start.IsZero() {
		elapsed := l.cfg.Clock.Now().Sub(st.start)

		fields := Fields{
			FieldDuration: durationMillis(elapsed),
		}
		if ev.Cursor != nil {
			fields[FieldLastInsertID] = ev.Cursor.LastInsertID()
			fields[FieldRowsAffected] = ev.Cursor.RowsAffected()
		}
		l.client.AddContext(fields)

		l.cfg.Metrics.recordQueryDuration(ctx, elapsed, extractOperation(ev.Statement), nil)
	}

	if st.open() {
		l.client.FinishSpan(st.span)
	}
}

// OnError records a statement failure on the trace, finishes any open
// span, and returns the execution context to idle. The original error
// stays untouched and propagates to the caller through the host.
func (l *Listeners) OnError(ctx context.Context, ev ErrorEvent) {
	st := stateFrom(ctx)

	l.client.AddContextField(FieldError, l.client.StringifyException(ev.Err))

	if st == nil {
		return
	}
	defer st.reset()

	if !st.start.IsZero() {
		elapsed := l.cfg.Clock.Now().Sub(st.start)
		l.cfg.Metrics.recordQueryDuration(ctx, elapsed, extractOperation(ev.Statement), ev.Err)
	}

	if st.open() {
		l.client.FinishSpan(st.span)
	}
}

// durationMillis converts a duration to floating-point milliseconds.
func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
