package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// GeminiClient handles communication with the generative-language endpoint.
// One prompt in, one text answer out: no streaming, no retry on failure.
type GeminiClient struct {
	url     string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewGeminiClient creates a client for the given endpoint. The API key is
// supplied by configuration, never embedded in source.
func NewGeminiClient(url, apiKey string, timeout time.Duration) *GeminiClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		// The public endpoint throttles aggressively; one request per
		// second with a small burst keeps us under its free-tier quota.
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends the prompt as the sole content part of a single request and
// returns the first candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error: status %d %s", resp.StatusCode, resp.Status)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from generation API")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
