// Package llm is a thin client for an OpenAI-compatible chat-completions
// endpoint. The moderation engine treats it as an opaque collaborator that
// either returns text or fails; retries live here, not in the engine.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmptyResponse is returned when the provider answers without usable text
var ErrEmptyResponse = errors.New("llm: provider returned empty text")

const systemPrompt = "You are a skilled fiction writer."

// Options configures a Client
type Options struct {
	Endpoint     string
	APIKey       string
	DefaultModel string
	MaxTokens    int
	Timeout      time.Duration
	MaxAttempts  int
}

// Client calls the chat-completions API
type Client struct {
	opts       Options
	httpClient *http.Client
}

// NewClient creates a client. Zero option fields get workable defaults.
func NewClient(opts Options) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the provider for text. It retries transient failures with
// exponential backoff up to MaxAttempts, then reports the last error.
// An empty completion counts as a failure.
func (c *Client) Generate(ctx context.Context, prompt, model string, temperature float64) (string, string, error) {
	if model == "" {
		model = c.opts.DefaultModel
	}

	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, msgID, err := c.generateOnce(ctx, prompt, model, temperature)
		if err == nil {
			return text, msgID, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return "", "", lastErr
}

func (c *Client) generateOnce(ctx context.Context, prompt, model string, temperature float64) (string, string, error) {
	reqBody := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("llm: provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", "", ErrEmptyResponse
	}

	msgID := completion.ID
	if msgID == "" {
		msgID = "provider-no-id"
	}
	return completion.Choices[0].Message.Content, msgID, nil
}
