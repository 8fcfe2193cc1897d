package diagnose

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Generator produces diagnosis text for a prompt and optional images.
type Generator interface {
	Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error)
}

// GeminiClient calls the Gemini API for crop diagnoses.
type GeminiClient struct {
	client *genai.Client
	model  string
	stats  *LLMStats
}

func NewGeminiClient(ctx context.Context, apiKey, model string, stats *LLMStats) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	return &GeminiClient{client: client, model: model, stats: stats}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Stats returns the latency tracker for this client.
func (c *GeminiClient) Stats() *LLMStats {
	return c.stats
}

// Generate sends the prompt followed by any image attachments as a single
// user turn and returns the response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	parts := make([]*genai.Part, 0, len(attachments)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, a := range attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	c.stats.Record(time.Since(start), err)
	if err != nil {
		if code, ok := apiErrorCode(err); ok && (code == http.StatusTooManyRequests || code >= 500) {
			return "", &RetryableError{StatusCode: code, Message: err.Error()}
		}
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrProvider, c.model)
	}
	return text, nil
}

// apiErrorCode reports the HTTP status behind a provider error. Errors that
// lose their type on the way up are matched by their status text.
func apiErrorCode(err error) (int, bool) {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	s := err.Error()
	switch {
	case strings.Contains(s, "RESOURCE_EXHAUSTED"):
		return http.StatusTooManyRequests, true
	case strings.Contains(s, "UNAVAILABLE"):
		return http.StatusServiceUnavailable, true
	case strings.Contains(s, "INTERNAL"):
		return http.StatusInternalServerError, true
	}
	return 0, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient provider failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}
