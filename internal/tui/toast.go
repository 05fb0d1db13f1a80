package tui

import (
	"context"
	"sync"
	"time"

	"waterx/internal/notify"
)

// toastTTL is how long a toast stays on screen
const toastTTL = 6 * time.Second

// Toasts is a notify.Notifier that keeps the latest event for the status
// line. Register it with Manager.AddLocal so every event reaches it.
type Toasts struct {
	mu   sync.Mutex
	last *notify.Event
	now  func() time.Time
}

// NewToasts creates an empty toast line
func NewToasts() *Toasts {
	return &Toasts{now: time.Now}
}

// Name implements notify.Notifier
func (t *Toasts) Name() string { return "tui" }

// IsEnabled implements notify.Notifier
func (t *Toasts) IsEnabled() bool { return true }

// Send implements notify.Notifier
func (t *Toasts) Send(_ context.Context, event *notify.Event) error {
	if event == nil {
		return nil
	}
	t.mu.Lock()
	t.last = event
	t.mu.Unlock()
	return nil
}

// Current returns the event to display, or nil once it has expired
func (t *Toasts) Current() *notify.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	if !t.last.Timestamp.IsZero() && t.now().Sub(t.last.Timestamp) > toastTTL {
		return nil
	}
	return t.last
}

// Dismiss clears the toast line
func (t *Toasts) Dismiss() {
	t.mu.Lock()
	t.last = nil
	t.mu.Unlock()
}

// renderToast formats an event the way status messages look elsewhere
func renderToast(e *notify.Event) string {
	if e == nil {
		return ""
	}
	switch e.Severity {
	case notify.SeveritySuccess:
		return StatusSuccessStyle.Render(PrefixOK + " " + e.Message)
	case notify.SeverityError:
		return StatusErrorStyle.Render(PrefixFail + " " + e.Message)
	case notify.SeverityWarning:
		return StatusWarningStyle.Render(PrefixWarn + " " + e.Message)
	default:
		return infoStyle.Render(PrefixInfo + " " + e.Message)
	}
}
