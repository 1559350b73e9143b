package types

import "sync"

// Recorder receives committed engine events. Implementations must not call
// back into the emitting engine: Record runs inside the engine's guarded
// section.
type Recorder interface {
	Record(ev Event)
}

// MemoryRecorder keeps the most recent events in memory. It backs tests and
// the default in-process wiring when no database is configured.
type MemoryRecorder struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

// NewMemoryRecorder creates a recorder retaining at most limit events
// (oldest dropped first). A non-positive limit keeps everything.
func NewMemoryRecorder(limit int) *MemoryRecorder {
	return &MemoryRecorder{limit: limit}
}

func (r *MemoryRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Events returns a defensive copy of the retained events, oldest first.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
