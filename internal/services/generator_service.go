package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnspace/back/internal/clients"
	"github.com/learnspace/back/internal/config"
	"github.com/learnspace/back/internal/models"
)

// DefaultQuizCount is how many questions a quiz gets unless asked otherwise.
const DefaultQuizCount = 5

// GeneratorService produces learning content from a topic and a
// customization profile. Completion-service failures never escape this
// layer: the overview operation degrades to an inline error message, the
// structured operations degrade to empty results.
type GeneratorService interface {
	GenerateOverview(ctx context.Context, topic string, customization models.Customization) string
	GenerateQuiz(ctx context.Context, topic, difficulty string, count int) []models.QuizQuestion
	GenerateResources(ctx context.Context, topic string) models.ResourceSet
}

type generatorService struct {
	client clients.CompletionClient
}

func NewGeneratorService(client clients.CompletionClient) GeneratorService {
	return &generatorService{client: client}
}

func (s *generatorService) GenerateOverview(ctx context.Context, topic string, customization models.Customization) string {
	log := config.WithContext(ctx)

	reply, err := s.client.Complete(ctx, clients.CompletionRequest{
		Messages: []clients.Message{
			{Role: clients.RoleSystem, Content: "You are an educational content creator who specializes in creating engaging learning materials."},
			{Role: clients.RoleUser, Content: buildOverviewPrompt(topic, customization)},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		log.WithError(err).Errorf("overview generation failed for topic %q", topic)
		return fmt.Sprintf("Error generating content: %v", err)
	}

	return reply
}

func (s *generatorService) GenerateQuiz(ctx context.Context, topic, difficulty string, count int) []models.QuizQuestion {
	log := config.WithContext(ctx)

	if count <= 0 {
		count = DefaultQuizCount
	}

	reply, err := s.client.Complete(ctx, clients.CompletionRequest{
		Messages: []clients.Message{
			{Role: clients.RoleSystem, Content: "You are an educational content creator skilled at creating assessment materials."},
			{Role: clients.RoleUser, Content: buildQuizPrompt(topic, difficulty, count)},
		},
		Temperature:  0.7,
		MaxTokens:    2000,
		JSONResponse: true,
	})
	if err != nil {
		log.WithError(err).Errorf("quiz generation failed for topic %q", topic)
		return []models.QuizQuestion{}
	}

	questions, err := parseQuizPayload(reply)
	if err != nil {
		log.WithError(err).Errorf("quiz payload unparseable for topic %q", topic)
		return []models.QuizQuestion{}
	}

	log.Infof("✅ Generated %d quiz questions for topic %q", len(questions), topic)
	return questions
}

func (s *generatorService) GenerateResources(ctx context.Context, topic string) models.ResourceSet {
	log := config.WithContext(ctx)

	reply, err := s.client.Complete(ctx, clients.CompletionRequest{
		Messages: []clients.Message{
			{Role: clients.RoleSystem, Content: "You are a knowledgeable educator who knows about learning resources across many fields."},
			{Role: clients.RoleUser, Content: buildResourcesPrompt(topic)},
		},
		Temperature:  0.7,
		MaxTokens:    1500,
		JSONResponse: true,
	})
	if err != nil {
		log.WithError(err).Errorf("resource generation failed for topic %q", topic)
		return models.ResourceSet{}
	}

	resources, err := parseResourcesPayload(reply)
	if err != nil {
		log.WithError(err).Errorf("resources payload unparseable for topic %q", topic)
		return models.ResourceSet{}
	}

	return resources
}

func buildOverviewPrompt(topic string, c models.Customization) string {
	return fmt.Sprintf(`Create a comprehensive introduction to %[1]s with these specifications:
- Difficulty Level: %[2]s
- Content Format: %[3]s
- Learning Style: %[4]s

Include:
1. A brief overview of %[1]s
2. Key concepts to understand
3. Why this topic is important
4. How to approach learning this topic
5. A learning path or roadmap

Format the response with proper Markdown formatting, including:
- Headers and subheaders
- Bullet points where appropriate
- Code examples if relevant
- Bold or italic text for emphasis`,
		topic, c.DifficultyLevel, c.ContentFormat, c.LearningStyle)
}

func buildQuizPrompt(topic, difficulty string, count int) string {
	return fmt.Sprintf(`Create %d quiz questions on the topic of "%s" at a %s difficulty level.

For each question:
1. Provide a clear question
2. Include 4 possible answers (A, B, C, D)
3. Indicate the correct answer
4. Add a brief explanation of why the answer is correct

Format the output as a structured JSON list of question objects:
[
    {
        "question": "Question text here?",
        "options": ["A. Option 1", "B. Option 2", "C. Option 3", "D. Option 4"],
        "answer": "B",
        "explanation": "Explanation of why Option 2 is correct."
    },
    ...
]`, count, topic, strings.ToLower(difficulty))
}

func buildResourcesPrompt(topic string) string {
	return fmt.Sprintf(`Provide a curated list of learning resources for the topic: "%s"

Include:
1. Books (2-3 recommendations)
2. Online courses (2-3 platforms)
3. YouTube channels or specific videos
4. Websites, blogs, or documentation
5. Forums or communities for discussion

Do not invent URLs; use "generic-url-placeholder" wherever a link would go.

Format the output as JSON with these categories:
{
    "books": [{"title": "Book Title", "author": "Author Name", "description": "Brief description"}],
    "courses": [{"platform": "Platform Name", "title": "Course Title", "link": "generic-url-placeholder", "description": "Brief description"}],
    "videos": [{"channel": "Channel Name", "title": "Video Title", "description": "Brief description"}],
    "websites": [{"name": "Website Name", "description": "What this site offers"}],
    "communities": [{"name": "Community Name", "description": "What this community offers"}]
}`, topic)
}

// stripCodeFences removes a surrounding markdown code fence; models often
// wrap JSON payloads in one even when told not to.
func stripCodeFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// parseQuizPayload accepts both shapes the completion service produces: a
// bare array of questions, or an object wrapping it under "questions".
// Records that break the option/answer invariant are dropped.
func parseQuizPayload(raw string) ([]models.QuizQuestion, error) {
	clean := stripCodeFences(raw)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		var wrapper struct {
			Questions []models.QuizQuestion `json:"questions"`
		}
		if wrapErr := json.Unmarshal([]byte(clean), &wrapper); wrapErr != nil {
			return nil, fmt.Errorf("failed to decode quiz JSON: %w", err)
		}
		questions = wrapper.Questions
	}

	valid := make([]models.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if normalized, ok := normalizeQuestion(q); ok {
			valid = append(valid, normalized)
		}
	}

	return valid, nil
}

// normalizeQuestion enforces the question invariant: exactly four options
// labeled A-D in order, and an answer matching one of the labels.
func normalizeQuestion(q models.QuizQuestion) (models.QuizQuestion, bool) {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != 4 {
		return q, false
	}

	for i, option := range q.Options {
		option = strings.TrimSpace(option)
		if option == "" || option[0] != byte('A'+i) {
			return q, false
		}
		q.Options[i] = option
	}

	answer := strings.ToUpper(strings.TrimSpace(q.Answer))
	if len(answer) == 0 {
		return q, false
	}
	answer = answer[:1]
	if answer[0] < 'A' || answer[0] > 'D' {
		return q, false
	}
	q.Answer = answer

	return q, true
}

// parseResourcesPayload decodes the structured resource listing. Link
// fields are placeholders by policy and never reach the user, so they are
// blanked here regardless of what came back.
func parseResourcesPayload(raw string) (models.ResourceSet, error) {
	clean := stripCodeFences(raw)

	var resources models.ResourceSet
	if err := json.Unmarshal([]byte(clean), &resources); err != nil {
		return models.ResourceSet{}, fmt.Errorf("failed to decode resources JSON: %w", err)
	}

	for i := range resources.Courses {
		resources.Courses[i].Link = ""
	}

	return resources, nil
}
