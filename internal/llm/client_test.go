package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionsURL(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		deployment string
		want       string
	}{
		{
			name:       "azure resource endpoint",
			endpoint:   "https://myres.openai.azure.com",
			deployment: "gpt-4",
			want:       "https://myres.openai.azure.com/openai/deployments/gpt-4/chat/completions?api-version=2024-02-01",
		},
		{
			name:       "trailing slash trimmed",
			endpoint:   "https://myres.openai.azure.com/",
			deployment: "gpt-4",
			want:       "https://myres.openai.azure.com/openai/deployments/gpt-4/chat/completions?api-version=2024-02-01",
		},
		{
			name:     "full completions URL used verbatim",
			endpoint: "https://api.example.com/v1/chat/completions",
			want:     "https://api.example.com/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completionsURL(tt.endpoint, tt.deployment))
		})
	}
}

func TestComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAPIKey, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("api-key")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/chat/completions", "secret", "", time.Second)
	out, err := c.Complete(context.Background(), CompletionRequest{
		System:      "be nice",
		User:        "hi",
		Temperature: 0.7,
		MaxTokens:   150,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "Bearer secret", gotAuth)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "be nice", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "hi", gotReq.Messages[1].Content)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
	assert.Equal(t, 150, gotReq.MaxTokens)
}

func TestCompleteOmitsEmptySystemMessage(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/chat/completions", "", "", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{User: "hi"})

	require.NoError(t, err)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestCompleteProviderErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		errContains string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"rate limit"}}`, "status 429"},
		{"provider error field", http.StatusOK, `{"error":{"message":"deployment not found"}}`, "deployment not found"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL+"/chat/completions", "k", "", time.Second)
			_, err := c.Complete(context.Background(), CompletionRequest{User: "hi"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
