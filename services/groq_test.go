package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqTestServer(t *testing.T, handler http.HandlerFunc) *GroqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewGroqClient("test-key", srv.URL+"/", 5*time.Second, nil)
	t.Cleanup(func() {
		c.httpClient.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func TestGroqComplete(t *testing.T) {
	var got chatRequest
	c := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"plan\":[]}"}}]}`))
	})

	text, err := c.Complete(context.Background(), "make a plan", DefaultGenerationParams())
	require.NoError(t, err)
	assert.Equal(t, `{"plan":[]}`, text)

	assert.Equal(t, DefaultGroqModel, got.Model)
	assert.Equal(t, 0.6, got.Temperature)
	assert.Equal(t, 4096, got.MaxCompletionTokens)
	assert.Equal(t, 1.0, got.TopP)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "make a plan", got.Messages[0].Content)
}

func TestGroqErrorStatus(t *testing.T) {
	c := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	})

	_, err := c.Complete(context.Background(), "p", DefaultGenerationParams())
	require.ErrorIs(t, err, models.ErrTransport)
	var te *models.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.True(t, te.Retryable())
	assert.Contains(t, te.Error(), "rate limited")
}

func TestGroqNoChoices(t *testing.T) {
	c := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Complete(context.Background(), "p", DefaultGenerationParams())
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestGroqMissingKey(t *testing.T) {
	c := NewGroqClient("", "", time.Second, nil)
	_, err := c.Complete(context.Background(), "p", DefaultGenerationParams())
	assert.ErrorIs(t, err, models.ErrConfiguration)
}
