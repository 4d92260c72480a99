package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps the error body kept in a StatusError.
const maxErrorBody = 4 * 1024

var (
	// ErrUnauthorized is returned when the service rejects the credential.
	ErrUnauthorized = errors.New("text-generation service rejected the API key")

	// ErrEmptyResponse is returned when the service returns no choices.
	ErrEmptyResponse = errors.New("text-generation service returned no content")
)

// StatusError is returned for non-2xx responses other than 401 and 403.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Body is the start of the response body.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("text-generation request failed: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("text-generation request failed: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// Option configures an OpenAIClient.
type Option func(*OpenAIClient)

// WithHTTPClient sets the HTTP client. Its Timeout bounds each call.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenAIClient) {
		o.httpClient = c
	}
}

// WithBaseURL sets the API root, e.g. "https://api.openai.com/v1".
func WithBaseURL(baseURL string) Option {
	return func(o *OpenAIClient) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *OpenAIClient) {
		o.logger = logger
	}
}

// NewOpenAIClient creates a client for model authenticated with apiKey.
func NewOpenAIClient(apiKey, model string, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		baseURL:    "https://api.openai.com/v1",
		apiKey:     apiKey,
		model:      model,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier sent with every request.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends req and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: req.Messages(),
	}
	if req.Format == FormatJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.logger.Debug("text-generation call",
		"model", c.model,
		"status", resp.StatusCode,
		"json", req.Format == FormatJSON,
		"duration", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return parsed.Choices[0].Message.Content, nil
}
