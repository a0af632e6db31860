package logger

import (
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("rbac")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.component != "rbac" {
		t.Errorf("expected component 'rbac', got %q", l.component)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "not-a-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic.
	l.Info("discarded")
	l.WithError(nil).Debug("discarded")
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("base")
	scoped := l.WithComponent("resolver")
	if scoped.component != "resolver" {
		t.Errorf("expected component 'resolver', got %q", scoped.component)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json"}, false},
		{"valid console", Config{Level: "info", Format: "console"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("role", "staff", "count", 3)
	if m["role"] != "staff" {
		t.Errorf("expected role 'staff', got %v", m["role"])
	}
	if m["count"] != 3 {
		t.Errorf("expected count 3, got %v", m["count"])
	}
}

func TestFieldsOddArguments(t *testing.T) {
	m := Fields("only-key")
	if len(m) != 0 {
		t.Errorf("expected empty map for dangling key, got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("compile", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}
