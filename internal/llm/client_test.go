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

func completionJSON(id, text string) string {
	resp := map[string]interface{}{
		"id": id,
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": text}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionJSON("chatcmpl-123", "Once upon a time.")))
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, APIKey: "key-1", DefaultModel: "test-model"})
	text, msgID, err := c.Generate(context.Background(), "tell a story", "", 0.7)
	require.NoError(t, err)

	assert.Equal(t, "Once upon a time.", text)
	assert.Equal(t, "chatcmpl-123", msgID)
	assert.Equal(t, "Bearer key-1", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "tell a story", gotReq.Messages[1].Content)
}

func TestGenerateMissingIDGetsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionJSON("", "text")))
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL})
	_, msgID, err := c.Generate(context.Background(), "p", "m", 0)
	require.NoError(t, err)
	assert.Equal(t, "provider-no-id", msgID)
}

func TestGenerateEmptyCompletionFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, MaxAttempts: 1})
	_, _, err := c.Generate(context.Background(), "p", "m", 0)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionJSON("chatcmpl-9", "finally")))
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, MaxAttempts: 3})
	text, _, err := c.Generate(context.Background(), "p", "m", 0)
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, MaxAttempts: 2})
	_, _, err := c.Generate(context.Background(), "p", "m", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGenerateStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{Endpoint: srv.URL, MaxAttempts: 5})
	start := time.Now()
	_, _, err := c.Generate(ctx, "p", "m", 0)
	require.Error(t, err)
	// cancellation short-circuits the backoff loop
	assert.Less(t, time.Since(start), 2*time.Second)
}
