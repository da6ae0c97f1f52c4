package ormtrace

import (
	"fmt"
	"time"
)

// paramShape classifies bind parameters before any formatting happens.
type paramShape int

const (
	paramsAbsent paramShape = iota
	paramsPositional
	paramsNamed
)

// NamedParam is one named bind parameter. Named parameters are carried
// as an ordered slice so serialization preserves insertion order.
type NamedParam struct {
	Name  string
	Value any
}

// Params carries the bind parameters of one statement in exactly one of
// three shapes: absent (the zero value), positional, or named. The shape
// is fixed at construction; classification never happens during
// formatting.
type Params struct {
	shape      paramShape
	positional []any
	named      []NamedParam
}

// PositionalParams returns Params for an ordered parameter sequence.
func PositionalParams(values ...any) Params {
	return Params{shape: paramsPositional, positional: values}
}

// NamedParams returns Params for name/value pairs in insertion order.
func NamedParams(params ...NamedParam) Params {
	return Params{shape: paramsNamed, named: params}
}

// Serialize renders the parameters as a flat, ordered sequence of
// strings, used verbatim as the db.query_args field. Absent parameters
// produce an empty sequence. It never fails; unknown value types fall
// through to their default textual form.
func (p Params) Serialize() []string {
	switch p.shape {
	case paramsPositional:
		out := make([]string, 0, len(p.positional))
		for _, v := range p.positional {
			out = append(out, displayValue(v))
		}
		return out
	case paramsNamed:
		out := make([]string, 0, len(p.named))
		for _, nv := range p.named {
			out = append(out, nv.Name+"="+displayValue(nv.Value))
		}
		return out
	default:
		return []string{}
	}
}

// displayValue renders a single bind value. Times use their canonical
// ISO-8601 form; everything else, nested sequences included, uses the
// default textual form.
func displayValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return fmt.Sprint(nil)
		}
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
