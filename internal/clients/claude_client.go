package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type claudeClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type ClaudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

type ClaudeResponse struct {
	Content []ContentBlock `json:"content"`
	Usage   Usage          `json:"usage"`
	Error   *ClaudeError   `json:"error,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type ClaudeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewClaudeClient(model string) CompletionClient {
	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		log.Warn("CLAUDE_API_KEY not found in environment variables")
	}

	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	return &claudeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com/v1/messages",
		client:  &http.Client{Timeout: completionTimeout},
	}
}

func (c *claudeClient) Complete(ctx context.Context, creq CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", NewInvalidAPIKeyError("Claude API key not configured")
	}

	// The messages endpoint takes the system instruction as a top-level
	// field, not as a message role.
	system := ""
	messages := make([]Message, 0, len(creq.Messages))
	for _, m := range creq.Messages {
		if m.Role == RoleSystem {
			system = m.Content
			continue
		}
		messages = append(messages, m)
	}

	if creq.JSONResponse {
		system += "\n\nRespond with pure, valid JSON only. No text outside the JSON."
	}

	request := ClaudeRequest{
		Model:       c.model,
		MaxTokens:   creq.MaxTokens,
		Temperature: creq.Temperature,
		System:      strings.TrimSpace(system),
		Messages:    messages,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", NewGeneralError(fmt.Sprintf("Claude API error (status %d): %s", resp.StatusCode, string(body)))
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if claudeResp.Error != nil {
		return "", mapClaudeError(claudeResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", NewGeneralError(fmt.Sprintf("Claude API error (status %d): %s", resp.StatusCode, string(body)))
	}

	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("no content returned from Claude API")
	}

	content := claudeResp.Content[0].Text
	log.Debugf("Claude API response received (length: %d)", len(content))

	return content, nil
}

func mapClaudeError(apiErr *ClaudeError) error {
	switch apiErr.Type {
	case "invalid_request_error":
		if strings.Contains(apiErr.Message, "maximum context length") || strings.Contains(apiErr.Message, "too many tokens") {
			return NewTokenLimitError(fmt.Sprintf("input too long for the model: %s", apiErr.Message))
		}
		return NewGeneralError(fmt.Sprintf("Claude API request error: %s", apiErr.Message))
	case "authentication_error":
		return NewInvalidAPIKeyError(fmt.Sprintf("check your configuration: %s", apiErr.Message))
	case "permission_error":
		return NewInvalidAPIKeyError(fmt.Sprintf("check your API key permissions: %s", apiErr.Message))
	case "rate_limit_error":
		return NewRateLimitError(fmt.Sprintf("wait a moment and try again: %s", apiErr.Message))
	case "api_error", "overloaded_error":
		return NewGeneralError(fmt.Sprintf("Claude API server error: %s", apiErr.Message))
	default:
		return NewGeneralError(fmt.Sprintf("Claude API error (%s): %s", apiErr.Type, apiErr.Message))
	}
}
