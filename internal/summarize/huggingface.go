package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultHFBaseURL is the hosted Inference API model root.
const DefaultHFBaseURL = "https://api-inference.huggingface.co/models"

// HFClient calls the Hugging Face Inference API summarization task. The
// hosted pipeline tokenizes with truncation, builds the attention mask,
// generates and decodes without special tokens.
type HFClient struct {
	token      string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewHFClient(token, model, baseURL string, httpClient *http.Client) *HFClient {
	if baseURL == "" {
		baseURL = DefaultHFBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HFClient{
		token:      token,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	Truncation string `json:"truncation"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (c *HFClient) Name() string { return BackendHuggingFace + ":" + c.model }

// Summarize sends one chunk and returns the generated summary text.
func (c *HFClient) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     text,
		Parameters: hfParameters{Truncation: "only_first"},
		Options:    hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("inference api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if isTransientStatus(resp.StatusCode) {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference api status %d: %s", resp.StatusCode, truncate(errorMessage(respBody), 200))
	}

	var out []hfSummary
	if err := json.Unmarshal(respBody, &out); err != nil {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", errors.New("inference api: " + apiErr.Error)
		}
		return "", fmt.Errorf("decode response: %w (raw: %s)", err, truncate(string(respBody), 200))
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty response from inference api")
	}
	return out[0].SummaryText, nil
}

// Close releases idle connections.
func (c *HFClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func errorMessage(body []byte) string {
	var apiErr hfError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		if apiErr.EstimatedTime > 0 {
			return fmt.Sprintf("%s (estimated %.0fs)", apiErr.Error, apiErr.EstimatedTime)
		}
		return apiErr.Error
	}
	return string(body)
}
