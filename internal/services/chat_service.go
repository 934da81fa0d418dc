package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/learnspace/back/internal/clients"
	"github.com/learnspace/back/internal/config"
	"github.com/learnspace/back/internal/models"
)

// chatContextWindow is how many of the most recent prior turns are sent to
// the completion service as conversational context. Older turns are
// silently dropped, never summarized.
const chatContextWindow = 5

// ChatService maintains per-session conversational context and answers
// follow-up questions about a topic. Histories live only in memory: chat is
// session-scoped by design and never reaches durable storage.
//
// Within a session, history is keyed by the topic string. Two spaces that
// share an identical topic therefore share one conversation.
type ChatService interface {
	Ask(ctx context.Context, token, topic, message string, customization models.Customization) string
	History(token, topic string) []models.ChatTurn
}

type chatService struct {
	client    clients.CompletionClient
	mutex     sync.RWMutex
	histories map[string]map[string][]models.ChatTurn
}

func NewChatService(client clients.CompletionClient) ChatService {
	return &chatService{
		client:    client,
		histories: make(map[string]map[string][]models.ChatTurn),
	}
}

func (s *chatService) Ask(ctx context.Context, token, topic, message string, customization models.Customization) string {
	log := config.WithContext(ctx)

	messages := []clients.Message{
		{Role: clients.RoleSystem, Content: buildTutorSystemMessage(topic, customization)},
	}
	for _, turn := range s.recentTurns(token, topic) {
		messages = append(messages, clients.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, clients.Message{Role: clients.RoleUser, Content: message})

	reply, err := s.client.Complete(ctx, clients.CompletionRequest{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		log.WithError(err).Errorf("chat completion failed for topic %q", topic)
		return fmt.Sprintf("Error communicating with AI: %v", err)
	}

	s.appendExchange(token, topic, message, reply)
	return reply
}

func (s *chatService) History(token, topic string) []models.ChatTurn {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	history := s.histories[token][topic]
	out := make([]models.ChatTurn, len(history))
	copy(out, history)
	return out
}

// recentTurns returns at most the last chatContextWindow turns for the
// topic.
func (s *chatService) recentTurns(token, topic string) []models.ChatTurn {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	history := s.histories[token][topic]
	if len(history) > chatContextWindow {
		history = history[len(history)-chatContextWindow:]
	}

	out := make([]models.ChatTurn, len(history))
	copy(out, history)
	return out
}

func (s *chatService) appendExchange(token, topic, message, reply string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.histories[token] == nil {
		s.histories[token] = make(map[string][]models.ChatTurn)
	}
	s.histories[token][topic] = append(s.histories[token][topic],
		models.ChatTurn{Role: clients.RoleUser, Content: message},
		models.ChatTurn{Role: clients.RoleAssistant, Content: reply},
	)
}

func buildTutorSystemMessage(topic string, c models.Customization) string {
	return fmt.Sprintf(`You are an expert tutor on the topic: %s.
Generate educational content with these preferences:
- Difficulty Level: %s
- Content Format: %s
- Learning Style: %s

Always provide accurate, well-structured explanations that are easy to understand.
Use markdown formatting for better readability.`,
		topic, c.DifficultyLevel, c.ContentFormat, c.LearningStyle)
}
