package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/rbackit/logger"
)

// Event is one recorded access decision.
type Event struct {
	ID       string        `json:"id"`
	Time     time.Time     `json:"time"`
	Roles    []string      `json:"roles"`
	Method   string        `json:"method"`
	Resource string        `json:"resource"`
	Decision string        `json:"decision"`
	Mode     string        `json:"mode"`
	Duration time.Duration `json:"duration"`
}

const defaultCapacity = 256

// Recorder keeps a bounded in-memory trail of recent decisions and
// writes each one through the logger. The trail is a ring: once capacity
// is reached the oldest events are dropped.
type Recorder struct {
	mu       sync.Mutex
	log      *logger.Logger
	events   []Event
	capacity int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCapacity sets how many recent events the recorder retains.
func WithCapacity(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// NewRecorder creates a Recorder writing through the given logger. A nil
// logger records silently.
func NewRecorder(log *logger.Logger, opts ...Option) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		log:      log.WithComponent("audit"),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stamps the event with an ID and timestamp, retains it, and logs
// it.
func (r *Recorder) Record(e Event) {
	e.ID = uuid.NewString()
	e.Time = time.Now().UTC()

	r.mu.Lock()
	r.events = append(r.events, e)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}
	r.mu.Unlock()

	r.log.Info("access decision", logger.Fields(
		"event_id", e.ID,
		logger.FieldRoles, e.Roles,
		logger.FieldMethod, e.Method,
		logger.FieldResource, e.Resource,
		logger.FieldDecision, e.Decision,
		logger.FieldMode, e.Mode,
		logger.FieldDuration, e.Duration.Milliseconds(),
	))
}

// Recent returns a copy of the retained events, oldest first.
func (r *Recorder) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
