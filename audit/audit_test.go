package audit

import (
	"fmt"
	"testing"
	"time"
)

func TestRecordStampsEvent(t *testing.T) {
	r := NewRecorder(nil)
	r.Record(Event{
		Roles:    []string{"staff"},
		Method:   "GET",
		Resource: "articles",
		Decision: "allowed",
		Mode:     "whitelist",
		Duration: 42 * time.Microsecond,
	})

	events := r.Recent()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" {
		t.Error("expected a generated event ID")
	}
	if e.Time.IsZero() {
		t.Error("expected a timestamp")
	}
	if e.Decision != "allowed" {
		t.Errorf("expected decision 'allowed', got %q", e.Decision)
	}
}

func TestRecorderCapacity(t *testing.T) {
	r := NewRecorder(nil, WithCapacity(3))
	for i := 0; i < 5; i++ {
		r.Record(Event{Resource: fmt.Sprintf("res-%d", i)})
	}
	events := r.Recent()
	if len(events) != 3 {
		t.Fatalf("expected 3 retained events, got %d", len(events))
	}
	if events[0].Resource != "res-2" {
		t.Errorf("expected oldest retained event res-2, got %s", events[0].Resource)
	}
	if events[2].Resource != "res-4" {
		t.Errorf("expected newest event res-4, got %s", events[2].Resource)
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	r := NewRecorder(nil)
	r.Record(Event{Resource: "a"})
	events := r.Recent()
	events[0].Resource = "mutated"
	if r.Recent()[0].Resource != "a" {
		t.Error("Recent must return a copy")
	}
}
