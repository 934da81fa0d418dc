package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
)

type openAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type OpenAIRequest struct {
	Model          string                `json:"model"`
	Messages       []Message             `json:"messages"`
	Temperature    float64               `json:"temperature"`
	MaxTokens      int                   `json:"max_tokens"`
	ResponseFormat *OpenAIResponseFormat `json:"response_format,omitempty"`
}

type OpenAIResponseFormat struct {
	Type string `json:"type"`
}

type OpenAIResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func NewOpenAIClient(model string) CompletionClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY not found in environment variables")
	}

	if model == "" {
		model = "gpt-4"
	}

	return &openAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1/chat/completions",
		client:  &http.Client{Timeout: completionTimeout},
	}
}

func (c *openAIClient) Complete(ctx context.Context, creq CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", NewInvalidAPIKeyError("OpenAI API key not configured")
	}

	request := OpenAIRequest{
		Model:       c.model,
		Messages:    creq.Messages,
		Temperature: creq.Temperature,
		MaxTokens:   creq.MaxTokens,
	}
	if creq.JSONResponse {
		request.ResponseFormat = &OpenAIResponseFormat{Type: "json_object"}
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var response OpenAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", NewGeneralError(fmt.Sprintf("OpenAI API error (status %d): %s", resp.StatusCode, string(body)))
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if response.Error != nil {
		return "", mapOpenAIError(response.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", NewGeneralError(fmt.Sprintf("OpenAI API error (status %d): %s", resp.StatusCode, string(body)))
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI API")
	}

	content := response.Choices[0].Message.Content
	log.Debugf("OpenAI API response received (length: %d)", len(content))

	return content, nil
}

func mapOpenAIError(apiErr *APIError) error {
	switch apiErr.Code {
	case "context_length_exceeded":
		return NewTokenLimitError(fmt.Sprintf("input too long for the model: %s", apiErr.Message))
	case "max_tokens_exceeded":
		return NewTokenLimitError(fmt.Sprintf("generated response too long: %s", apiErr.Message))
	case "insufficient_quota":
		return NewQuotaExceededError(fmt.Sprintf("check your plan and billing details: %s", apiErr.Message))
	case "invalid_api_key":
		return NewInvalidAPIKeyError(fmt.Sprintf("check your configuration: %s", apiErr.Message))
	case "rate_limit_exceeded":
		return NewRateLimitError(fmt.Sprintf("wait a moment and try again: %s", apiErr.Message))
	default:
		return NewGeneralError(fmt.Sprintf("OpenAI API error (%s): %s", apiErr.Code, apiErr.Message))
	}
}
