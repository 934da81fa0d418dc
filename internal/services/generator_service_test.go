package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnspace/back/internal/clients"
	"github.com/learnspace/back/internal/models"
)

// scriptedClient answers with a fixed sequence of replies, repeating the
// last one when the script runs out, and records every request it saw.
type scriptedClient struct {
	replies []string
	err     error
	calls   []clients.CompletionRequest
}

func (c *scriptedClient) Complete(_ context.Context, req clients.CompletionRequest) (string, error) {
	c.calls = append(c.calls, req)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", nil
	}
	idx := len(c.calls) - 1
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	return c.replies[idx], nil
}

func (c *scriptedClient) lastPrompt() string {
	if len(c.calls) == 0 {
		return ""
	}
	messages := c.calls[len(c.calls)-1].Messages
	return messages[len(messages)-1].Content
}

const validQuizJSON = `[
  {
    "question": "What does HTTP stand for?",
    "options": ["A. HyperText Transfer Protocol", "B. High Throughput Protocol", "C. Hyperlink Text Process", "D. Host Transfer Protocol"],
    "answer": "A",
    "explanation": "HTTP is the HyperText Transfer Protocol."
  },
  {
    "question": "Which status code means Not Found?",
    "options": ["A. 200", "B. 404", "C. 301", "D. 500"],
    "answer": "b",
    "explanation": "404 indicates the resource was not found."
  }
]`

func TestGenerateOverview(t *testing.T) {
	client := &scriptedClient{replies: []string{"# Go Basics\n\nAn overview."}}
	generator := NewGeneratorService(client)

	content := generator.GenerateOverview(context.Background(), "Go Basics", customization("Beginner"))

	assert.Equal(t, "# Go Basics\n\nAn overview.", content)
	require.Len(t, client.calls, 1)
	assert.Equal(t, clients.RoleSystem, client.calls[0].Messages[0].Role)

	prompt := client.lastPrompt()
	assert.Contains(t, prompt, "Go Basics")
	assert.Contains(t, prompt, "Difficulty Level: Beginner")
	assert.Contains(t, prompt, "Learning Style: Conceptual")
}

func TestGenerateOverviewClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	generator := NewGeneratorService(client)

	content := generator.GenerateOverview(context.Background(), "Go Basics", customization("Beginner"))

	assert.Equal(t, "Error generating content: rate limited", content)
}

func TestGenerateQuiz(t *testing.T) {
	client := &scriptedClient{replies: []string{"```json\n" + validQuizJSON + "\n```"}}
	generator := NewGeneratorService(client)

	questions := generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 2)

	require.Len(t, questions, 2)
	assert.Equal(t, "A", questions[0].Answer)
	assert.Equal(t, "B", questions[1].Answer, "answers are normalized to upper case")
	for _, q := range questions {
		require.Len(t, q.Options, 4)
		for i, option := range q.Options {
			assert.Equal(t, byte('A'+i), option[0])
		}
	}
	assert.True(t, client.calls[0].JSONResponse)
}

func TestGenerateQuizWrapperObject(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"questions": ` + validQuizJSON + `}`}}
	generator := NewGeneratorService(client)

	questions := generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 2)

	assert.Len(t, questions, 2)
}

func TestGenerateQuizDropsInvalidRecords(t *testing.T) {
	payload := `[
		{"question": "Valid?", "options": ["A. yes", "B. no", "C. maybe", "D. unsure"], "answer": "A", "explanation": "ok"},
		{"question": "Too few options", "options": ["A. yes", "B. no"], "answer": "A", "explanation": "bad"},
		{"question": "Wrong labels", "options": ["1. yes", "2. no", "3. maybe", "4. unsure"], "answer": "A", "explanation": "bad"},
		{"question": "Answer out of range", "options": ["A. yes", "B. no", "C. maybe", "D. unsure"], "answer": "E", "explanation": "bad"},
		{"question": "", "options": ["A. yes", "B. no", "C. maybe", "D. unsure"], "answer": "A", "explanation": "bad"}
	]`
	client := &scriptedClient{replies: []string{payload}}
	generator := NewGeneratorService(client)

	questions := generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 5)

	require.Len(t, questions, 1)
	assert.Equal(t, "Valid?", questions[0].Question)
}

func TestGenerateQuizMalformedPayload(t *testing.T) {
	client := &scriptedClient{replies: []string{"Sorry, I cannot produce JSON today."}}
	generator := NewGeneratorService(client)

	questions := generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 5)

	assert.Empty(t, questions)
}

func TestGenerateQuizClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("quota exceeded")}
	generator := NewGeneratorService(client)

	questions := generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 5)

	assert.Empty(t, questions)
}

func TestGenerateQuizPromptLowercasesDifficulty(t *testing.T) {
	client := &scriptedClient{replies: []string{validQuizJSON}}
	generator := NewGeneratorService(client)

	generator.GenerateQuiz(context.Background(), "HTTP", "Advanced", 5)

	prompt := client.lastPrompt()
	assert.Contains(t, prompt, "at a advanced difficulty level")
	assert.NotContains(t, prompt, "Advanced")
	assert.Contains(t, prompt, "Create 5 quiz questions")
}

func TestGenerateQuizDefaultCount(t *testing.T) {
	client := &scriptedClient{replies: []string{validQuizJSON}}
	generator := NewGeneratorService(client)

	generator.GenerateQuiz(context.Background(), "HTTP", "beginner", 0)

	assert.Contains(t, client.lastPrompt(), "Create 5 quiz questions")
}

func TestGenerateResources(t *testing.T) {
	payload := `{
		"books": [{"title": "The Go Programming Language", "author": "Donovan & Kernighan", "description": "The standard text."}],
		"courses": [{"platform": "Coursera", "title": "Go Fundamentals", "link": "generic-url-placeholder", "description": "Intro course."}],
		"videos": [{"channel": "JustForFunc", "title": "Go tooling", "description": "Tooling tour."}],
		"websites": [{"name": "go.dev", "description": "Official documentation."}],
		"communities": [{"name": "Gophers Slack", "description": "Community chat."}]
	}`
	client := &scriptedClient{replies: []string{"```json\n" + payload + "\n```"}}
	generator := NewGeneratorService(client)

	resources := generator.GenerateResources(context.Background(), "Go")

	assert.False(t, resources.IsEmpty())
	require.Len(t, resources.Courses, 1)
	assert.Empty(t, resources.Courses[0].Link, "placeholder links never reach the caller")
	assert.Len(t, resources.Books, 1)
	assert.Len(t, resources.Communities, 1)
}

func TestGenerateResourcesClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("boom")}
	generator := NewGeneratorService(client)

	resources := generator.GenerateResources(context.Background(), "Go")

	assert.True(t, resources.IsEmpty())
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare payload", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.input))
		})
	}
}

func customization(level string) models.Customization {
	c := models.DefaultCustomization()
	c.DifficultyLevel = level
	return c
}
