package otelclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	ormtrace "github.com/hivetrace/ormtrace-go"
)

func newTestClient(t *testing.T) (*Client, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return New(WithTracerProvider(tp)), recorder
}

func attrValue(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestClientStartFinishSpan(t *testing.T) {
	t.Run("given span fields, then ended span carries name and attributes", func(t *testing.T) {
		client, recorder := newTestClient(t)

		span := client.StartSpan(ormtrace.Fields{
			ormtrace.FieldName:      ormtrace.SpanName,
			ormtrace.FieldType:      ormtrace.SpanType,
			ormtrace.FieldQuery:     "SELECT * FROM hives",
			ormtrace.FieldQueryArgs: []string{"7"},
		})
		client.FinishSpan(span)

		ended := recorder.Ended()
		require.Len(t, ended, 1)

		got := ended[0]
		assert.Equal(t, ormtrace.SpanName, got.Name())
		assert.Equal(t, trace.SpanKindClient, got.SpanKind())

		v, ok := attrValue(got, ormtrace.FieldType)
		require.True(t, ok)
		assert.Equal(t, ormtrace.SpanType, v.AsString())

		v, ok = attrValue(got, ormtrace.FieldQuery)
		require.True(t, ok)
		assert.Equal(t, "SELECT * FROM hives", v.AsString())

		v, ok = attrValue(got, ormtrace.FieldQueryArgs)
		require.True(t, ok)
		assert.Equal(t, []string{"7"}, v.AsStringSlice())

		// The name field names the span, it is not repeated as an attribute.
		_, ok = attrValue(got, ormtrace.FieldName)
		assert.False(t, ok)
	})

	t.Run("given missing name field, then span falls back to default name", func(t *testing.T) {
		client, recorder := newTestClient(t)

		span := client.StartSpan(ormtrace.Fields{ormtrace.FieldType: ormtrace.SpanType})
		client.FinishSpan(span)

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, ormtrace.SpanName, ended[0].Name())
	})

	t.Run("given non-span value, then finish is a no-op", func(t *testing.T) {
		client, recorder := newTestClient(t)

		assert.NotPanics(t, func() {
			client.FinishSpan("not a span")
		})
		assert.Empty(t, recorder.Ended())
	})
}

func TestClientAddContext(t *testing.T) {
	t.Run("given open span, then fields land on it", func(t *testing.T) {
		client, recorder := newTestClient(t)

		span := client.StartSpan(ormtrace.Fields{ormtrace.FieldName: ormtrace.SpanName})
		client.AddContext(ormtrace.Fields{
			ormtrace.FieldDuration:     12.5,
			ormtrace.FieldRowsAffected: int64(3),
		})
		client.FinishSpan(span)

		ended := recorder.Ended()
		require.Len(t, ended, 1)

		v, ok := attrValue(ended[0], ormtrace.FieldDuration)
		require.True(t, ok)
		assert.Equal(t, 12.5, v.AsFloat64())

		v, ok = attrValue(ended[0], ormtrace.FieldRowsAffected)
		require.True(t, ok)
		assert.Equal(t, int64(3), v.AsInt64())
	})

	t.Run("given two open spans, then fields land on the most recent", func(t *testing.T) {
		client, recorder := newTestClient(t)

		outer := client.StartSpan(ormtrace.Fields{ormtrace.FieldName: "outer"})
		inner := client.StartSpan(ormtrace.Fields{ormtrace.FieldName: "inner"})

		client.AddContextField(ormtrace.FieldDuration, 1.0)

		client.FinishSpan(inner)
		client.FinishSpan(outer)

		ended := recorder.Ended()
		require.Len(t, ended, 2)

		byName := map[string]sdktrace.ReadOnlySpan{}
		for _, s := range ended {
			byName[s.Name()] = s
		}

		_, ok := attrValue(byName["inner"], ormtrace.FieldDuration)
		assert.True(t, ok)
		_, ok = attrValue(byName["outer"], ormtrace.FieldDuration)
		assert.False(t, ok)
	})

	t.Run("given finished inner span, then fields fall back to the outer", func(t *testing.T) {
		client, recorder := newTestClient(t)

		outer := client.StartSpan(ormtrace.Fields{ormtrace.FieldName: "outer"})
		inner := client.StartSpan(ormtrace.Fields{ormtrace.FieldName: "inner"})
		client.FinishSpan(inner)

		client.AddContextField(ormtrace.FieldError, "boom")
		client.FinishSpan(outer)

		ended := recorder.Ended()
		require.Len(t, ended, 2)

		for _, s := range ended {
			if s.Name() != "outer" {
				continue
			}
			v, ok := attrValue(s, ormtrace.FieldError)
			require.True(t, ok)
			assert.Equal(t, "boom", v.AsString())
		}
	})

	t.Run("given no open span, then fields are dropped without panic", func(t *testing.T) {
		client, _ := newTestClient(t)

		assert.NotPanics(t, func() {
			client.AddContext(ormtrace.Fields{ormtrace.FieldDuration: 1.0})
			client.AddContextField(ormtrace.FieldError, "boom")
		})
	})
}

func TestClientStringifyException(t *testing.T) {
	client, _ := newTestClient(t)

	assert.Equal(t, "boom", client.StringifyException(errors.New("boom")))
	assert.Empty(t, client.StringifyException(nil))
}

func TestAnyAttribute(t *testing.T) {
	type args struct {
		key   string
		value any
	}

	tests := []struct {
		name string
		args args
		want attribute.KeyValue
	}{
		{
			name: "given string value, then string attribute",
			args: args{key: "k", value: "v"},
			want: attribute.String("k", "v"),
		},
		{
			name: "given bool value, then bool attribute",
			args: args{key: "k", value: true},
			want: attribute.Bool("k", true),
		},
		{
			name: "given int value, then int attribute",
			args: args{key: "k", value: 7},
			want: attribute.Int("k", 7),
		},
		{
			name: "given int64 value, then int64 attribute",
			args: args{key: "k", value: int64(7)},
			want: attribute.Int64("k", 7),
		},
		{
			name: "given float64 value, then float64 attribute",
			args: args{key: "k", value: 1.5},
			want: attribute.Float64("k", 1.5),
		},
		{
			name: "given string slice value, then string slice attribute",
			args: args{key: "k", value: []string{"a", "b"}},
			want: attribute.StringSlice("k", []string{"a", "b"}),
		},
		{
			name: "given unsupported value, then textual fallback",
			args: args{key: "k", value: []int{1, 2}},
			want: attribute.String("k", "[1 2]"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := anyAttribute(tt.args.key, tt.args.value)
			assert.Equal(t, tt.want, got)
		})
	}
}
