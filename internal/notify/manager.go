// Package notify - Notification manager for fan-out to multiple backends
package notify

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"

	"waterx/internal/logger"
)

// Manager manages multiple notification backends.
// Local notifiers (console, TUI) always receive every event; remote ones are
// filtered by MinSeverity.
type Manager struct {
	config   Config
	local    []Notifier
	remote   []Notifier
	mu       sync.RWMutex
	hostname string
	log      logger.Logger
}

// NewManager creates a new notification manager with configured backends
func NewManager(config Config, log logger.Logger) *Manager {
	hostname, _ := os.Hostname()
	if log == nil {
		log = logger.NewNullLogger()
	}

	m := &Manager{
		config:   config,
		hostname: hostname,
		log:      log,
	}

	if config.WebhookEnabled {
		m.remote = append(m.remote, NewWebhookNotifier(config))
	}
	if config.SlackWebhookURL != "" {
		m.remote = append(m.remote, NewSlackNotifier(config.SlackWebhookURL))
	}

	return m
}

// AddLocal adds a notifier that receives every event (console, TUI)
func (m *Manager) AddLocal(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.local = append(m.local, n)
}

// AddNotifier adds a remote notifier subject to severity filtering
func (m *Manager) AddNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remote = append(m.remote, n)
}

// Notify sends an event to every backend. Delivery failures are logged and
// never reach the caller.
func (m *Manager) Notify(event *Event) {
	timeout := m.config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := m.NotifySync(ctx, event); err != nil {
		m.log.Warn("Notification delivery failed", "error", err)
	}
}

// NotifySync sends an event synchronously to all enabled backends.
// Local backends are called in order; remote ones concurrently.
func (m *Manager) NotifySync(ctx context.Context, event *Event) error {
	if event.Hostname == "" && m.hostname != "" {
		event.Hostname = m.hostname
	}

	m.mu.RLock()
	local := append([]Notifier(nil), m.local...)
	remote := append([]Notifier(nil), m.remote...)
	m.mu.RUnlock()

	var result *multierror.Error
	for _, n := range local {
		if !n.IsEnabled() {
			continue
		}
		if err := n.Send(ctx, event); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}

	if m.meetsSeverity(event.Severity) {
		var errMu sync.Mutex
		var wg sync.WaitGroup
		for _, n := range remote {
			if !n.IsEnabled() {
				continue
			}
			wg.Add(1)
			go func(notifier Notifier) {
				defer wg.Done()
				if err := notifier.Send(ctx, event); err != nil {
					errMu.Lock()
					result = multierror.Append(result, fmt.Errorf("%s: %w", notifier.Name(), err))
					errMu.Unlock()
				}
			}(n)
		}
		wg.Wait()
	}

	return result.ErrorOrNil()
}

// meetsSeverity checks if event severity meets the remote threshold
func (m *Manager) meetsSeverity(severity Severity) bool {
	if m.config.MinSeverity == "" {
		return true
	}
	return severityOrder(severity) >= severityOrder(m.config.MinSeverity)
}

// EnabledNotifiers returns the names of all enabled notifiers
func (m *Manager) EnabledNotifiers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.local)+len(m.remote))
	for _, n := range append(append([]Notifier(nil), m.local...), m.remote...) {
		if n.IsEnabled() {
			names = append(names, n.Name())
		}
	}
	return names
}

// HasEnabledNotifiers returns true if at least one notifier is enabled
func (m *Manager) HasEnabledNotifiers() bool {
	return len(m.EnabledNotifiers()) > 0
}

// NullManager returns a manager with no backends
func NullManager() *Manager {
	return &Manager{log: logger.NewNullLogger()}
}
