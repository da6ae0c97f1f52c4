package ormtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// scope is the instrumentation scope name for OpenTelemetry.
// This identifies the library in metrics.
const scope = "github.com/hivetrace/ormtrace-go"

// config holds the configuration for the listeners.
type config struct {
	// Logger receives the overlap warning and nothing else. Defaults to
	// a timestamped stderr logger.
	Logger zerolog.Logger

	// Clock supplies statement start times and durations. Defaults to
	// the real clock; tests inject a fake.
	Clock clockz.Clock

	// MeterProvider is the meter provider to use. If not set, uses the
	// global provider via otel.GetMeterProvider(). When no global
	// provider is configured, a no-op meter is used.
	MeterProvider metric.MeterProvider

	// Meter is the meter instance created from MeterProvider.
	Meter metric.Meter

	// Metrics holds the metric instruments.
	Metrics *metrics

	// QuerySanitizer sanitizes statement text before it is added to the
	// db.query span field. If nil, statements are included as-is.
	QuerySanitizer func(query string) string

	// DisableQueryArgs omits bind parameters from spans entirely. Use
	// this when parameter values may contain sensitive data.
	DisableQueryArgs bool
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		Logger:        zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Clock:         clockz.RealClock,
		MeterProvider: otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// Initialize the meter after options are applied. With no provider
	// configured globally this is a no-op implementation: no errors,
	// just no telemetry collected.
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// Initialize metrics (ignore errors, will just be nil if fails)
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// Option configures the listeners.
type Option func(*config)

// WithLogger sets the logger used for the overlap warning.
//
// Example:
//
//	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
//	listeners := ormtrace.New(client, ormtrace.WithLogger(logger))
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = l
	}
}

// WithClock sets the clock used for statement timing. The default is the
// real clock; pass a fake clock for deterministic duration tests.
func WithClock(c clockz.Clock) Option {
	return func(cfg *config) {
		cfg.Clock = c
	}
}

// WithMeterProvider sets a custom meter provider for the statement
// duration histogram. If not called, the global provider from
// otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.MeterProvider = mp
	}
}

// WithQuerySanitizer sets a sanitizer applied to statement text before it
// becomes the db.query span field. The sanitizer receives the raw SQL and
// should return a version with sensitive literals masked.
//
// Use DefaultQuerySanitizer for a basic implementation:
//
//	listeners := ormtrace.New(client,
//	    ormtrace.WithQuerySanitizer(ormtrace.DefaultQuerySanitizer),
//	)
//	// Statement: "SELECT * FROM users WHERE id = 123"
//	// Recorded as: "SELECT * FROM users WHERE id = ?"
func WithQuerySanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.QuerySanitizer = fn
	}
}

// WithDisableQueryArgs disables recording of bind parameters in spans.
// The db.query_args field is set to an empty sequence; db.query is still
// recorded (sanitize or rewrite it separately if needed).
func WithDisableQueryArgs() Option {
	return func(cfg *config) {
		cfg.DisableQueryArgs = true
	}
}
