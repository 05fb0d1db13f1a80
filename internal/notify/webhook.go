// Package notify - Webhook HTTP notifications
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
)

// WebhookNotifier sends notifications via HTTP webhooks
type WebhookNotifier struct {
	config Config
	client *http.Client
}

// NewWebhookNotifier creates a new Webhook notifier
func NewWebhookNotifier(config Config) *WebhookNotifier {
	return &WebhookNotifier{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the notifier name
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// IsEnabled returns whether webhook notifications are enabled
func (w *WebhookNotifier) IsEnabled() bool {
	return w.config.WebhookEnabled && w.config.WebhookURL != ""
}

// WebhookPayload is the JSON payload sent to webhooks
type WebhookPayload struct {
	Version   string            `json:"version"`
	Event     *Event            `json:"event"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Signature string            `json:"signature,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Send sends a webhook notification
func (w *WebhookNotifier) Send(ctx context.Context, event *Event) error {
	if !w.IsEnabled() {
		return nil
	}

	payload := WebhookPayload{
		Version: "1.0",
		Event:   event,
		Subject: FormatEventSubject(event),
		Body:    FormatEventBody(event),
		Metadata: map[string]string{
			"source": "waterx-admin",
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	if w.config.WebhookSecret != "" {
		payload.Signature = w.signPayload(jsonBody)
		jsonBody, _ = json.Marshal(payload)
	}

	attempts := 0
	op := func() error {
		attempts++
		err := w.doRequest(ctx, jsonBody)
		if err != nil && isClientRejection(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, w.retryPolicy(ctx)); err != nil {
		return fmt.Errorf("webhook: failed after %d attempts: %w", attempts, err)
	}
	return nil
}

func (w *WebhookNotifier) retryPolicy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if w.config.RetryDelay > 0 {
		exp.InitialInterval = w.config.RetryDelay
	}
	exp.MaxInterval = 10 * time.Second
	exp.MaxElapsedTime = time.Minute
	exp.Reset()

	retries := w.config.Retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

// isClientRejection reports a 4xx response; those are not retried
func isClientRejection(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status >= 400 && se.status < 500
}

// doRequest performs the HTTP request
func (w *WebhookNotifier) doRequest(ctx context.Context, body []byte) error {
	method := w.config.WebhookMethod
	if method == "" {
		method = "POST"
	}

	req, err := http.NewRequestWithContext(ctx, method, w.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "waterx-notifier/1.0")
	for k, v := range w.config.WebhookHeaders {
		req.Header.Set(k, v)
	}
	if w.config.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", "sha256="+w.signPayload(body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: string(respBody)}
	}

	return nil
}

// signPayload creates an HMAC-SHA256 signature
func (w *WebhookNotifier) signPayload(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(w.config.WebhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SlackPayload is a Slack-compatible webhook payload
type SlackPayload struct {
	Text        string       `json:"text,omitempty"`
	Username    string       `json:"username,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a Slack message attachment
type Attachment struct {
	Color     string            `json:"color,omitempty"`
	Title     string            `json:"title,omitempty"`
	Text      string            `json:"text,omitempty"`
	Fields    []AttachmentField `json:"fields,omitempty"`
	Footer    string            `json:"footer,omitempty"`
	Timestamp int64             `json:"ts,omitempty"`
}

// AttachmentField is a field in a Slack attachment
type AttachmentField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackWebhookNotifier sends Slack-formatted notifications
type SlackWebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a webhook notifier configured for Slack
func NewSlackNotifier(webhookURL string) *SlackWebhookNotifier {
	return &SlackWebhookNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the notifier name
func (s *SlackWebhookNotifier) Name() string {
	return "slack"
}

// IsEnabled returns whether Slack notifications are enabled
func (s *SlackWebhookNotifier) IsEnabled() bool {
	return s.webhookURL != ""
}

// Send sends a Slack notification
func (s *SlackWebhookNotifier) Send(ctx context.Context, event *Event) error {
	if !s.IsEnabled() {
		return nil
	}

	color := "#36a64f"
	switch event.Severity {
	case SeverityWarning:
		color = "#daa038"
	case SeverityError:
		color = "#cc0000"
	case SeverityInfo:
		color = "#439fe0"
	}

	var fields []AttachmentField
	if event.File != "" {
		fields = append(fields, AttachmentField{Title: "File", Value: event.File, Short: true})
	}
	if event.Size > 0 {
		fields = append(fields, AttachmentField{Title: "Size", Value: humanize.Bytes(uint64(event.Size)), Short: true})
	}
	if event.Hostname != "" {
		fields = append(fields, AttachmentField{Title: "Host", Value: event.Hostname, Short: true})
	}
	if event.Error != "" {
		fields = append(fields, AttachmentField{Title: "Error", Value: event.Error})
	}

	payload := SlackPayload{
		Username: "waterx",
		Attachments: []Attachment{{
			Color:     color,
			Title:     FormatEventSubject(event),
			Text:      event.Message,
			Fields:    fields,
			Footer:    "waterx-admin",
			Timestamp: event.Timestamp.Unix(),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("slack: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
