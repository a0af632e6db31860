package observability

import (
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestNewDecisionMetrics(t *testing.T) {
	// The global provider defaults to a no-op implementation, which is
	// enough to exercise instrument creation and recording.
	m, err := NewDecisionMetrics(otel.Meter("test"))
	if err != nil {
		t.Fatalf("NewDecisionMetrics: %v", err)
	}
	m.RecordDecision("whitelist", "allowed", time.Millisecond)
	m.RecordDecision("blacklist", "denied", time.Millisecond)
	m.RecordCompile(10 * time.Millisecond)
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("svc")
	if cfg.ServiceName != "svc" {
		t.Errorf("expected service name 'svc', got %q", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected full sampling by default, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("svc")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %s", cfg.Interval)
	}
	if cfg.Endpoint == "" {
		t.Error("expected a default endpoint")
	}
}

func TestStartSpanNoProvider(t *testing.T) {
	ctx, span := StartSpan(t.Context(), SpanPermissionCheck)
	defer span.End()
	if ctx == nil {
		t.Fatal("expected context from StartSpan")
	}
}
