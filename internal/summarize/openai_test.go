package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/v1/chat/completions", handler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Summarize(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "local-model", req.Model)
		assert.Equal(t, 256, req.MaxTokens)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Equal(t, SummaryPrompt, req.Messages[0].Content)
			assert.Equal(t, "chunk text", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"local-model",
			"choices":[{"index":0,"message":{"role":"assistant","content":"a summary"},"finish_reason":"stop"}]}`))
	})

	c := NewOpenAIClient("sk-test", "local-model", srv.URL+"/v1", 256, srv.Client())
	out, err := c.Summarize(context.Background(), "chunk text")
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)
	assert.Equal(t, "openai:local-model", c.Name())
}

func TestOpenAIClient_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"bad request", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"test_error"}}`))
			})
			c := NewOpenAIClient("sk-test", "m", srv.URL+"/v1", 0, srv.Client())

			_, err := c.Summarize(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	})
	c := NewOpenAIClient("sk-test", "m", srv.URL+"/v1", 0, srv.Client())

	_, err := c.Summarize(context.Background(), "x")
	assert.ErrorContains(t, err, "empty response")
}
