package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "waterx/internal/errors"
)

func newTestServer(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithToken("tok"), WithTimeout(5*time.Second)), srv
}

func TestGetSettingEnvelope(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/settings/logoUrl", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"success":true,"data":{"key":"logoUrl","value":"https://cdn.example.com/l.png"}}`)
	})

	setting, err := client.GetSetting(context.Background(), SettingLogoURL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/l.png", setting.Value)
}

func TestGetSettingBareBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"key":"logoUrl","value":""}`)
	})

	setting, err := client.GetSetting(context.Background(), SettingLogoURL)
	require.NoError(t, err)
	assert.Equal(t, "", setting.Value)
}

func TestPutSettingSendsValue(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"value": "https://x/y.png"}, body)
		_, _ = io.WriteString(w, `{"success":true,"data":{"value":"https://x/y.png?v=2"}}`)
	})

	setting, err := client.PutSetting(context.Background(), SettingLogoURL, "https://x/y.png")
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.png?v=2", setting.Value, "server-confirmed value wins")
}

func TestEnvelopeFailure(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"Setting is read-only"}`)
	})

	_, err := client.PutSetting(context.Background(), SettingLogoURL, "x")
	require.Error(t, err)
	assert.Equal(t, "Setting is read-only", apperrors.Message(err, "fallback"))
	assert.Equal(t, apperrors.ErrCodeRejected, apperrors.GetCode(err))
}

func TestHTTPErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    apperrors.ErrorCode
		message string
	}{
		{"not found bare", http.StatusNotFound, `not found`, apperrors.ErrCodeNotFound, "fallback"},
		{"server error envelope", http.StatusInternalServerError, `{"success":false,"error":"db down"}`, apperrors.ErrCodeServer, "db down"},
		{"forbidden", http.StatusForbidden, `{}`, apperrors.ErrCodeUnauthorized, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetSetting(context.Background(), SettingLogoURL)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			assert.Equal(t, tt.status, apperrors.GetStatus(err))
			assert.Equal(t, tt.message, apperrors.Message(err, "fallback"))
		})
	}
}

func TestFetchBackupReturnsData(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/backup", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"data":{"customers":[1],"products":[],"orders":[]}}`)
	})

	data, err := client.FetchBackup(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"customers":[1],"products":[],"orders":[]}`, string(data))
}

func TestRestoreSendsBodyVerbatim(t *testing.T) {
	body := []byte(`{"customers":[],"products":[],"orders":[],"extra":{"a":1}}`)
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/restore", r.URL.Path)
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, string(body), string(got))
		_, _ = io.WriteString(w, `{"success":true,"data":null}`)
	})

	require.NoError(t, client.Restore(context.Background(), body))
}

func TestUpdateProfileOmitsEmptyPassword(t *testing.T) {
	var seen map[string]any
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees/profile/emp-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		_, _ = io.WriteString(w, `{"success":true,"data":{"name":"Ada L","role":"Admin"}}`)
	})

	res, err := client.UpdateProfile(context.Background(), "emp-1", ProfileUpdate{Name: "Ada L", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, &ProfileResult{Name: "Ada L", Role: "Admin"}, res)
	assert.NotContains(t, seen, "password")
	assert.Equal(t, "ada@example.com", seen["email"])
}

func TestListEmployees(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"1","name":"Ada","email":"ada@example.com","role":"Admin"}]}`)
	})

	list, err := client.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ada@example.com", list[0].Email)
}

func TestMalformedPayload(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":"not-a-list"}`)
	})

	_, err := client.ListEmployees(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidJSON, apperrors.GetCode(err))
}

func TestResponseTooLarge(t *testing.T) {
	body := `{"customers":[],"products":[],"orders":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	exact := NewClient(srv.URL, WithMaxBodyBytes(int64(len(body))))
	raw, err := exact.FetchBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))

	small := NewClient(srv.URL, WithMaxBodyBytes(int64(len(body)-1)))
	_, err = small.FetchBackup(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTooLarge, apperrors.GetCode(err))
	assert.Equal(t, "The API response is too large.", apperrors.Message(err, ""))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).FetchBackup(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryNetwork, apperrors.GetCategory(err))
}

func TestTimeout(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchBackup(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.GetCode(err))
}
