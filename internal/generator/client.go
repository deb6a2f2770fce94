// Package generator requests rewritten articles from an OpenAI-style
// chat-completions endpoint.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"seopress/internal/config"
	"seopress/internal/models"
	"seopress/pkg/utils"
)

// ErrEmptyResponse indicates the service answered without usable content.
var ErrEmptyResponse = errors.New("empty response from generation service")

// APIError reports a non-2xx answer from the generation service.
type APIError struct {
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Body)
}

// ChatCompletionRequest is the request body for chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the subset of the chat/completions answer we read.
type ChatCompletionResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Client calls the chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	prompt     *Prompt
	cfg        config.GeneratorConfig
}

// NewClient creates a client from the generator settings.
func NewClient(cfg config.GeneratorConfig) (*Client, error) {
	prompt, err := NewPrompt(cfg.PromptPath, cfg.ReferenceMaxChars)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		prompt:     prompt,
		cfg:        cfg,
	}, nil
}

// Generate asks for a rewritten article about title, using reference as
// source material. Every failure is returned as an error; the caller decides
// on the fallback.
func (c *Client) Generate(ctx context.Context, title, reference string) (*models.GeneratedText, error) {
	userPrompt, err := c.prompt.Render(title, reference)
	if err != nil {
		return nil, err
	}

	request := ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.NewHTTPHelper().BuildHeaders(map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer " + c.cfg.APIKey,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	return &models.GeneratedText{Raw: content}, nil
}
