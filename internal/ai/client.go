// Package ai wraps the LLM provider used for survey generation and
// translation. The transport is a plain JSON-over-HTTP client; callers are
// expected to fall back to heuristics when it errors.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"
)

const (
	maxRetries   = 2
	initialDelay = 1 * time.Second
)

// Client is the provider surface the survey service depends on
type Client interface {
	GenerateSurvey(ctx context.Context, description string, questionCount int, language string) (*SurveyDraft, error)
	TranslateTexts(ctx context.Context, texts []string, targetLanguage string) ([]string, error)
}

// SurveyDraft is the provider's structured survey proposal
type SurveyDraft struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint
type HTTPClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewHTTPClient creates a provider client from config
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.AI.TimeoutSec) * time.Second
	return &HTTPClient{
		apiKey:  cfg.AI.APIKey,
		baseURL: cfg.AI.BaseURL,
		model:   cfg.AI.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateSurvey asks the model for a survey draft as strict JSON
func (c *HTTPClient) GenerateSurvey(ctx context.Context, description string, questionCount int, language string) (*SurveyDraft, error) {
	prompt := generatePrompt(description, questionCount, language)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var draft SurveyDraft
	if err := json.Unmarshal([]byte(extractJSON(content)), &draft); err != nil {
		return nil, fmt.Errorf("provider returned unparseable draft: %w", err)
	}
	if len(draft.Questions) == 0 {
		return nil, fmt.Errorf("provider returned no questions")
	}
	return &draft, nil
}

// TranslateTexts translates each input text, preserving order
func (c *HTTPClient) TranslateTexts(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	prompt := translatePrompt(texts, targetLanguage)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var translated []string
	if err := json.Unmarshal([]byte(extractJSON(content)), &translated); err != nil {
		return nil, fmt.Errorf("provider returned unparseable translation: %w", err)
	}
	if len(translated) != len(texts) {
		return nil, fmt.Errorf("provider returned %d translations for %d texts", len(translated), len(texts))
	}
	return translated, nil
}

func (c *HTTPClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("AI_API_KEY not set")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		content, retryable, err := c.doRequest(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("provider request failed after %d attempts: %w", maxRetries+1, lastErr)
}

func (c *HTTPClient) doRequest(ctx context.Context, payload []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var provErr providerError
		if jsonErr := json.Unmarshal(body, &provErr); jsonErr == nil && provErr.Error.Message != "" {
			// 429 and 5xx are worth one more try; 4xx are not
			retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
			return "", retryable, fmt.Errorf("provider error (%d): %s", resp.StatusCode, provErr.Error.Message)
		}
		return "", resp.StatusCode >= 500, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", false, fmt.Errorf("provider returned no choices")
	}

	return chatResp.Choices[0].Message.Content, false, nil
}

// extractJSON strips markdown fences the model sometimes wraps around JSON
func extractJSON(content string) string {
	start := -1
	for i, ch := range content {
		if ch == '{' || ch == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return content
	}
	end := len(content) - 1
	for end > start {
		if content[end] == '}' || content[end] == ']' {
			break
		}
		end--
	}
	return content[start : end+1]
}
