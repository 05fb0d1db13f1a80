// Package notify delivers user-visible notices (the admin panel's toasts)
// to the console, the TUI, and optionally a webhook.
package notify

import (
	"context"
	"fmt"
	"time"
)

// EventType represents the type of notification event
type EventType string

const (
	EventExportCompleted   EventType = "export_completed"
	EventExportFailed      EventType = "export_failed"
	EventRestoreNoFile     EventType = "restore_no_file"
	EventRestoreCompleted  EventType = "restore_completed"
	EventRestoreFailed     EventType = "restore_failed"
	EventLogoUpdated       EventType = "logo_updated"
	EventLogoUpdateFailed  EventType = "logo_update_failed"
	EventProfileUpdated    EventType = "profile_updated"
	EventProfileFailed     EventType = "profile_update_failed"
	EventValidationFailed  EventType = "validation_failed"
	EventSessionChanged    EventType = "session_changed"
	EventNotificationCheck EventType = "notification_check"
)

// Severity represents the severity level of a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// severityOrder returns numeric order for severity comparison
func severityOrder(s Severity) int {
	switch s {
	case SeverityInfo:
		return 0
	case SeveritySuccess:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 0
	}
}

// Event represents a notification event
type Event struct {
	Type      EventType         `json:"type"`
	Severity  Severity          `json:"severity"`
	Timestamp time.Time         `json:"timestamp"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Error     string            `json:"error,omitempty"`
	File      string            `json:"file,omitempty"`
	Size      int64             `json:"size,omitempty"`
	Hostname  string            `json:"hostname,omitempty"`
}

// NewEvent creates a new notification event
func NewEvent(eventType EventType, severity Severity, message string) *Event {
	return &Event{
		Type:      eventType,
		Severity:  severity,
		Timestamp: time.Now(),
		Message:   message,
		Details:   make(map[string]string),
	}
}

// Success builds a success event
func Success(eventType EventType, message string) *Event {
	return NewEvent(eventType, SeveritySuccess, message)
}

// Failure builds an error event carrying err
func Failure(eventType EventType, message string, err error) *Event {
	return NewEvent(eventType, SeverityError, message).WithError(err)
}

// Warning builds a warning event
func Warning(eventType EventType, message string) *Event {
	return NewEvent(eventType, SeverityWarning, message)
}

// WithError adds error information to the event
func (e *Event) WithError(err error) *Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithFile adds file path and size information
func (e *Event) WithFile(file string, size int64) *Event {
	e.File = file
	e.Size = size
	return e
}

// WithHostname adds hostname to the event
func (e *Event) WithHostname(hostname string) *Event {
	e.Hostname = hostname
	return e
}

// WithDetail adds a custom detail to the event
func (e *Event) WithDetail(key, value string) *Event {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Publisher is what application components use to raise notices.
// Manager and Recorder implement it.
type Publisher interface {
	Notify(event *Event)
}

// Notifier is the interface that all notification backends must implement
type Notifier interface {
	// Name returns the name of the notifier (e.g., "console", "webhook")
	Name() string
	// Send sends a notification event
	Send(ctx context.Context, event *Event) error
	// IsEnabled returns whether the notifier is configured and enabled
	IsEnabled() bool
}

// Config holds configuration for the notification backends
type Config struct {
	// Webhook configuration
	WebhookEnabled bool
	WebhookURL     string
	WebhookMethod  string // POST, PUT
	WebhookHeaders map[string]string
	WebhookSecret  string // For signing payloads

	// Slack incoming webhook
	SlackWebhookURL string

	// General settings
	MinSeverity Severity      // applies to remote backends only
	Retries     int           // Number of webhook retry attempts
	RetryDelay  time.Duration // Initial delay between webhook retries
	Timeout     time.Duration // Per-notification deadline
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		WebhookMethod: "POST",
		MinSeverity:   SeverityInfo,
		Retries:       3,
		RetryDelay:    time.Second,
		Timeout:       10 * time.Second,
	}
}

// FormatEventSubject generates a subject line for remote notifications
func FormatEventSubject(event *Event) string {
	icon := "[INFO]"
	switch event.Severity {
	case SeveritySuccess:
		icon = "[OK]"
	case SeverityWarning:
		icon = "[WARN]"
	case SeverityError:
		icon = "[FAIL]"
	}
	return fmt.Sprintf("%s [waterx] %s", icon, event.Message)
}

// FormatEventBody generates a message body for remote notifications
func FormatEventBody(event *Event) string {
	body := fmt.Sprintf("%s\n\n", event.Message)
	body += fmt.Sprintf("Time: %s\n", event.Timestamp.Format(time.RFC3339))

	if event.Hostname != "" {
		body += fmt.Sprintf("Host: %s\n", event.Hostname)
	}
	if event.File != "" {
		body += fmt.Sprintf("File: %s\n", event.File)
	}
	if event.Error != "" {
		body += fmt.Sprintf("Error: %s\n", event.Error)
	}
	for k, v := range event.Details {
		body += fmt.Sprintf("%s: %s\n", k, v)
	}
	return body
}
