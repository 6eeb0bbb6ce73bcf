package summarize

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured for the gemini backend.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient summarizes through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return BackendGemini + ":" + c.model }

func (c *GeminiClient) Summarize(ctx context.Context, text string) (string, error) {
	prompt := SummaryPrompt + "\n\nPassage:\n---\n" + text + "\n---"
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		msg := err.Error()
		for _, marker := range []string{"429", "RESOURCE_EXHAUSTED", "quota", "503", "UNAVAILABLE"} {
			if strings.Contains(msg, marker) {
				return "", &RetryableError{StatusCode: geminiStatus(msg), Message: msg}
			}
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		return CleanChatOutput(sb.String()), nil
	}
	return "", fmt.Errorf("empty response from gemini")
}

func geminiStatus(msg string) int {
	if strings.Contains(msg, "503") || strings.Contains(msg, "UNAVAILABLE") {
		return http.StatusServiceUnavailable
	}
	return http.StatusTooManyRequests
}
