package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// apiVersion is the Azure OpenAI API version used for deployment URLs.
	apiVersion = "2024-02-01"

	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 30 * time.Second
)

// Client calls a chat-completion endpoint. It supports Azure OpenAI style
// deployment URLs as well as plain OpenAI-compatible endpoints.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a completion client. endpoint is either a full
// chat-completions URL or an Azure OpenAI resource endpoint; in the latter
// case deployment selects the model deployment to call.
func NewClient(endpoint, apiKey, deployment string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        completionsURL(endpoint, deployment),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// completionsURL builds the chat-completions URL for the given endpoint.
// Endpoints that already point at a chat-completions path are used verbatim.
func completionsURL(endpoint, deployment string) string {
	trimmed := strings.TrimRight(endpoint, "/")
	if strings.Contains(trimmed, "/chat/completions") {
		return trimmed
	}
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		trimmed, deployment, apiVersion)
}

// Complete sends a system/user message pair and returns the text of the
// first choice. Non-2xx provider responses are returned as errors carrying
// the provider message for diagnosability.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, Message{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, Message{Role: "user", Content: req.User})

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		// Azure OpenAI uses the api-key header; OpenAI-compatible servers
		// accept the bearer form. Send both.
		httpReq.Header.Set("api-key", c.apiKey)
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("completion provider error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion provider returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
