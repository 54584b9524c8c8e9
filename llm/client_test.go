package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a minimal provider for client tests. It posts the
// messages as-is and expects {"content": "..."} back.
type stubProvider struct{}

func (stubProvider) Name() string                 { return "stub" }
func (stubProvider) BuildURL(baseURL string) string { return baseURL }
func (stubProvider) SetHeaders(_ *http.Request)   {}

func (stubProvider) BuildRequestBody(model string, messages []Message, _ *float64, _ int) ([]byte, error) {
	return json.Marshal(map[string]any{"model": model, "messages": messages})
}

func (stubProvider) ParseResponse(body []byte, model string) (*Response, error) {
	var parsed struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &Response{Content: parsed.Content, Model: model}, nil
}

func init() {
	RegisterProvider(stubProvider{})
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(Endpoint{Provider: "no-such", Model: "m"})
	assert.Error(t, err)
}

func TestNewClient_RequiresModel(t *testing.T) {
	_, err := NewClient(Endpoint{Provider: "stub"})
	assert.Error(t, err)
}

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"content": "hello back"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Endpoint{Provider: "stub", Model: "m", BaseURL: srv.URL},
		WithRetryConfig(fastRetry()))
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello back", resp.Content)
	assert.Equal(t, "m", resp.Model)
}

func TestClient_CompleteRequiresMessages(t *testing.T) {
	c, err := NewClient(Endpoint{Provider: "stub", Model: "m"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"content": "recovered"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Endpoint{Provider: "stub", Model: "m", BaseURL: srv.URL},
		WithRetryConfig(fastRetry()))
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryFatalErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(Endpoint{Provider: "stub", Model: "m", BaseURL: srv.URL},
		WithRetryConfig(fastRetry()))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Endpoint{Provider: "stub", Model: "m", BaseURL: srv.URL},
		WithRetryConfig(fastRetry()))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusUnauthorized, false},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		err := classifyHTTPError(tt.status, []byte("boom"))
		assert.Equal(t, tt.transient, IsTransient(err), "status %d", tt.status)
		assert.Equal(t, !tt.transient, IsFatal(err), "status %d", tt.status)
	}
}
