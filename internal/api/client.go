// Package api is the HTTP client for the WaterX admin backend.
//
// Responses may arrive wrapped in an envelope of the form
//
//	{"success": true, "data": ..., "error": "..."}
//
// in which case the client returns data, or an error carrying the envelope's
// error text when success is false. Bodies without the envelope are returned
// as-is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apperrors "waterx/internal/errors"
	"waterx/internal/logger"
)

// Setting keys understood by the backend
const (
	SettingLogoURL = "logoUrl"
)

// defaultMaxBody caps how much of a response body is buffered
const defaultMaxBody = 64 << 20

// Setting is a key/value pair from /api/settings
type Setting struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Employee is the subset of an employee record the admin panel reads
type Employee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileUpdate is the body of PUT /api/employees/profile/{id}.
// Password is omitted when empty.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// ProfileResult is the identity the backend returns after a profile update
type ProfileResult struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Client talks to the admin backend
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
	requestID  func() string
	maxBody    int64
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout; zero keeps the transport default
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxBodyBytes sets the largest response body the client accepts
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logger.NewNullLogger(),
		requestID:  uuid.NewString,
		maxBody:    defaultMaxBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetSetting fetches a single setting by key
func (c *Client) GetSetting(ctx context.Context, key string) (*Setting, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/settings/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	return decode[Setting](payload)
}

// PutSetting stores value under key and returns the server-confirmed setting
func (c *Client) PutSetting(ctx context.Context, key, value string) (*Setting, error) {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidState, "failed to encode setting", err)
	}
	payload, err := c.do(ctx, http.MethodPut, "/api/settings/"+url.PathEscape(key), body)
	if err != nil {
		return nil, err
	}
	return decode[Setting](payload)
}

// FetchBackup returns the raw JSON snapshot from GET /api/backup
func (c *Client) FetchBackup(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/backup", nil)
}

// Restore posts a backup snapshot to /api/restore. body is sent verbatim.
func (c *Client) Restore(ctx context.Context, body []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/api/restore", body)
	return err
}

// UpdateProfile updates the employee's own profile
func (c *Client) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*ProfileResult, error) {
	body, err := json.Marshal(upd)
	if err != nil {
		return nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidState, "failed to encode profile", err)
	}
	payload, err := c.do(ctx, http.MethodPut, "/api/employees/profile/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	return decode[ProfileResult](payload)
}

// ListEmployees returns every employee visible to the caller
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/employees", nil)
	if err != nil {
		return nil, err
	}
	list, err := decode[[]Employee](payload)
	if err != nil {
		return nil, err
	}
	return *list, nil
}

// do performs one request and returns the unwrapped payload
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid request %s %s", method, path),
			"Check the API URL (--api-url or WATERX_API_URL)").WithCause(err)
	}

	reqID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.log.WithFields(map[string]interface{}{
		"method":     method,
		"endpoint":   path,
		"request_id": reqID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("API request failed", "error", err)
		return nil, apperrors.NewNetworkError("Could not reach the WaterX API.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, apperrors.NewNetworkError("Failed to read the API response.", err)
	}
	if int64(len(raw)) > c.maxBody {
		log.Warn("API response exceeds size limit", "limit", humanize.IBytes(uint64(c.maxBody)))
		return nil, apperrors.NewDataError(apperrors.ErrCodeTooLarge, "The API response is too large.", nil).
			WithDetails(fmt.Sprintf("%s %s returned more than %s", method, path, humanize.IBytes(uint64(c.maxBody))))
	}

	log.Debug("API request", "status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond).String())

	return unwrap(resp.StatusCode, raw)
}

// unwrap applies the status and envelope rules to a response body
func unwrap(status int, raw []byte) ([]byte, error) {
	env, isEnvelope := envelope(raw)

	if status < 200 || status >= 300 {
		msg := ""
		if isEnvelope {
			msg = env.Get("error").String()
		}
		return nil, apperrors.NewServerError(status, msg).
			WithDetails(strings.TrimSpace(truncate(string(raw), 256)))
	}

	if !isEnvelope {
		return raw, nil
	}

	if !env.Get("success").Bool() {
		return nil, apperrors.NewServerError(status, env.Get("error").String())
	}

	data := env.Get("data")
	if !data.Exists() {
		return nil, nil
	}
	return []byte(data.Raw), nil
}

// envelope reports whether raw is a JSON object with a boolean "success" field
func envelope(raw []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return gjson.Result{}, false
	}
	success := doc.Get("success")
	if success.Type != gjson.True && success.Type != gjson.False {
		return gjson.Result{}, false
	}
	return doc, true
}

func decode[T any](payload []byte) (*T, error) {
	out := new(T)
	if len(bytes.TrimSpace(payload)) == 0 || string(bytes.TrimSpace(payload)) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, apperrors.NewDataError(apperrors.ErrCodeInvalidJSON, "Unexpected response from the WaterX API.", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
