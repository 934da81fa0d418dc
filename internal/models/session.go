package models

import "time"

// Session is one logged-in browser session. Besides the auth token it
// carries the per-session view state: which space is open, which view of it
// is showing, and the customization profile applied to new generations.
type Session struct {
	Token          string        `json:"token"`
	Username       string        `json:"username"`
	CurrentSpaceID string        `json:"current_space_id,omitempty"`
	CurrentView    string        `json:"current_view,omitempty"`
	Customization  Customization `json:"customization"`
	ExpiresAt      time.Time     `json:"expires_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Space views a session can point at.
const (
	ViewContent   = "content"
	ViewQuiz      = "quiz"
	ViewResources = "resources"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	SpaceID string `json:"space_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply   string     `json:"reply"`
	History []ChatTurn `json:"history"`
}
