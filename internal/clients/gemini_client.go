package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a Gemini-backed completion client. The SDK reads
// GEMINI_API_KEY / GOOGLE_API_KEY from the environment on its own.
func NewGeminiClient(ctx context.Context, model string) (CompletionClient, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &geminiClient{client: client, model: model}, nil
}

func (c *geminiClient) Complete(ctx context.Context, creq CompletionRequest) (string, error) {
	// Gemini takes a single prompt; the role-tagged conversation is
	// flattened into labeled sections.
	var sb strings.Builder
	for _, m := range creq.Messages {
		switch m.Role {
		case RoleSystem:
			sb.WriteString(m.Content)
		case RoleAssistant:
			sb.WriteString("Assistant: " + m.Content)
		default:
			sb.WriteString("User: " + m.Content)
		}
		sb.WriteString("\n\n")
	}
	if creq.JSONResponse {
		sb.WriteString("Respond with pure, valid JSON only. No text outside the JSON.\n")
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(sb.String()),
		nil,
	)
	if err != nil {
		log.WithError(err).Error("failed to generate content from Gemini")
		return "", NewGeneralError(fmt.Sprintf("Gemini API error: %v", err))
	}

	raw := result.Text()
	if raw == "" {
		return "", errors.New("empty response from Gemini API")
	}

	log.Debugf("Gemini API response received (length: %d)", len(raw))
	return raw, nil
}
