package summarize

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Model turns a chunk of text into a shorter generated summary.
type Model interface {
	Summarize(ctx context.Context, text string) (string, error)
	Name() string
}

// Backend names a model provider.
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendGemini      = "gemini"
)

// DefaultModel is a BART checkpoint fine-tuned on CNN/DailyMail news.
const DefaultModel = "facebook/bart-large-cnn"

// ModelOptions selects and configures a backend.
type ModelOptions struct {
	Backend           string
	Model             string
	APIKey            string
	BaseURL           string        // Overrides the provider endpoint.
	Timeout           time.Duration // Per request.
	MaxTokens         int           // Output cap for chat backends.
	RequestsPerSecond float64       // 0 disables client-side limiting.
}

// NewModel constructs the backend named by opts.Backend.
func NewModel(ctx context.Context, opts ModelOptions) (Model, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	httpClient := &http.Client{Timeout: opts.Timeout}

	var m Model
	switch strings.ToLower(opts.Backend) {
	case "", BackendHuggingFace:
		model := opts.Model
		if model == "" {
			model = DefaultModel
		}
		m = NewHFClient(opts.APIKey, model, opts.BaseURL, httpClient)
	case BackendOpenAI:
		m = NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL, opts.MaxTokens, httpClient)
	case BackendGemini:
		g, err := NewGeminiClient(ctx, opts.APIKey, opts.Model, opts.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		m = g
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", opts.Backend)
	}

	if opts.RequestsPerSecond > 0 {
		m = &rateLimited{
			Model:   m,
			limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		}
	}
	return m, nil
}

// rateLimited spaces calls to the wrapped model.
type rateLimited struct {
	Model
	limiter *rate.Limiter
}

func (r *rateLimited) Summarize(ctx context.Context, text string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Model.Summarize(ctx, text)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
