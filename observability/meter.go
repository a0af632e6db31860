package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rbackit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service embedding the policy engine.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// DecisionMetrics holds the metric instruments recorded by the policy
// engine.
type DecisionMetrics struct {
	decisionTotal    metric.Int64Counter
	decisionDuration metric.Float64Histogram
	compileDuration  metric.Float64Histogram
}

// NewDecisionMetrics creates the engine's instruments on the given meter.
func NewDecisionMetrics(meter metric.Meter) (*DecisionMetrics, error) {
	decisionTotal, err := meter.Int64Counter("rbac.decision.total",
		metric.WithDescription("Total number of permission decisions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rbac.decision.total counter: %w", err)
	}

	decisionDuration, err := meter.Float64Histogram("rbac.decision.duration",
		metric.WithDescription("Duration of permission decisions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rbac.decision.duration histogram: %w", err)
	}

	compileDuration, err := meter.Float64Histogram("rbac.compile.duration",
		metric.WithDescription("Duration of policy compilation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rbac.compile.duration histogram: %w", err)
	}

	return &DecisionMetrics{
		decisionTotal:    decisionTotal,
		decisionDuration: decisionDuration,
		compileDuration:  compileDuration,
	}, nil
}

// RecordDecision records one resolved permission decision.
func (m *DecisionMetrics) RecordDecision(mode, decision string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("decision", decision),
	)
	ctx := context.Background()
	m.decisionTotal.Add(ctx, 1, attrs)
	m.decisionDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordCompile records one policy compilation.
func (m *DecisionMetrics) RecordCompile(d time.Duration) {
	m.compileDuration.Record(context.Background(), d.Seconds())
}
