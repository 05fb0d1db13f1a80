package notify

import (
	"context"
	"sync"
)

// Recorder keeps every event it receives. It is both a Publisher and a
// local Notifier.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// Notify records the event
func (r *Recorder) Notify(event *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Name implements Notifier
func (r *Recorder) Name() string { return "recorder" }

// IsEnabled implements Notifier
func (r *Recorder) IsEnabled() bool { return true }

// Send implements Notifier
func (r *Recorder) Send(_ context.Context, event *Event) error {
	r.Notify(event)
	return nil
}

// Events returns a copy of the recorded events in arrival order
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Event(nil), r.events...)
}

// Last returns the most recent event, or nil
func (r *Recorder) Last() *Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// Messages returns the message of every recorded event
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Message
	}
	return out
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
