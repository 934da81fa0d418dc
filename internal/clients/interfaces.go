package clients

import (
	"context"
	"time"
)

// completionTimeout bounds every call to an external completion provider.
// A hung provider fails the request instead of blocking it forever.
const completionTimeout = 2 * time.Minute

// Message roles understood by every completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one call to the external text-generation service:
// a role-tagged message sequence plus sampling parameters. JSONResponse
// asks the provider for a single structured JSON payload instead of free
// text (used for quiz and resource generation).
type CompletionRequest struct {
	Messages     []Message
	Temperature  float64
	MaxTokens    int
	JSONResponse bool
}

// CompletionClient is the opaque completion service. Implementations exist
// for OpenAI, Anthropic and Gemini; which one is used is a deployment
// choice, the callers never care.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
