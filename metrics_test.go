package ormtrace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	t.Run("given valid meter, then creates metrics successfully", func(t *testing.T) {
		mp := sdkmetric.NewMeterProvider()
		defer mp.Shutdown(context.Background())

		m, err := newMetrics(mp.Meter("test"))

		require.NoError(t, err)
		require.NotNil(t, m)
		assert.NotNil(t, m.queryDuration)
	})
}

func TestRecordQueryDuration(t *testing.T) {
	type args struct {
		duration  time.Duration
		operation string
		err       error
	}

	tests := []struct {
		name string
		args args
	}{
		{
			name: "given successful statement, then records with ok status",
			args: args{
				duration:  100 * time.Millisecond,
				operation: "SELECT",
				err:       nil,
			},
		},
		{
			name: "given failed statement, then records with error status",
			args: args{
				duration:  50 * time.Millisecond,
				operation: "INSERT",
				err:       assert.AnError,
			},
		},
		{
			name: "given empty operation, then records without operation attribute",
			args: args{
				duration:  10 * time.Millisecond,
				operation: "",
				err:       nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			defer mp.Shutdown(context.Background())

			m, err := newMetrics(mp.Meter("test"))
			require.NoError(t, err)

			ctx := context.Background()
			m.recordQueryDuration(ctx, tt.args.duration, tt.args.operation, tt.args.err)

			var rm metricdata.ResourceMetrics
			err = reader.Collect(ctx, &rm)
			require.NoError(t, err)
			assert.NotEmpty(t, rm.ScopeMetrics)
		})
	}
}

func TestRecordQueryDuration_NilMetrics(t *testing.T) {
	t.Run("given nil metrics, then does not panic", func(t *testing.T) {
		var m *metrics

		assert.NotPanics(t, func() {
			m.recordQueryDuration(context.Background(), time.Second, "SELECT", nil)
		})
	})
}

func TestRecordQueryDuration_NilHistogram(t *testing.T) {
	t.Run("given nil histogram, then does not panic", func(t *testing.T) {
		m := &metrics{}

		assert.NotPanics(t, func() {
			m.recordQueryDuration(context.Background(), time.Second, "SELECT", nil)
		})
	})
}
