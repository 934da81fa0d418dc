package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/learnspace/back/internal/models"
)

// ErrInvalidAnswer reports a submitted answer outside the A-D label set.
var ErrInvalidAnswer = errors.New("answer must be one of A, B, C or D")

// QuizService runs one ephemeral quiz attempt per (session, space). The
// attempt moves NotStarted -> InProgress(0..N-1) -> Completed; Previous
// steps back without touching submitted answers; Retry drops everything
// back to the start.
type QuizService interface {
	Start(ctx context.Context, token, username, spaceID, difficulty string) (*models.QuizViewResponse, error)
	Submit(ctx context.Context, token, username, spaceID, answer string) (*models.QuizViewResponse, error)
	Previous(ctx context.Context, token, username, spaceID string) (*models.QuizViewResponse, error)
	Retry(ctx context.Context, token, username, spaceID string) (*models.QuizViewResponse, error)
}

type quizService struct {
	spaces   SpaceService
	mutex    sync.Mutex
	attempts map[string]*models.QuizAttempt
}

func NewQuizService(spaces SpaceService) QuizService {
	return &quizService{
		spaces:   spaces,
		attempts: make(map[string]*models.QuizAttempt),
	}
}

func attemptKey(token, spaceID string) string {
	return token + "|" + spaceID
}

// Start makes sure the space has quiz questions (generating them on first
// view) and returns the current state of the attempt, creating a fresh one
// when none exists.
func (s *quizService) Start(ctx context.Context, token, username, spaceID, difficulty string) (*models.QuizViewResponse, error) {
	space, err := s.spaces.EnsureQuiz(ctx, username, spaceID, difficulty)
	if err != nil {
		return nil, err
	}

	if len(space.QuizQuestions) == 0 {
		return &models.QuizViewResponse{
			Success: false,
			Error:   "Failed to generate quiz questions. Please try again later.",
		}, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := attemptKey(token, spaceID)
	attempt, exists := s.attempts[key]
	if !exists {
		attempt = models.NewQuizAttempt()
		s.attempts[key] = attempt
	}

	return s.view(attempt, space.QuizQuestions), nil
}

// Submit records the answer for the current question and either advances
// or, on the last question, completes the attempt and computes the score.
func (s *quizService) Submit(ctx context.Context, token, username, spaceID, answer string) (*models.QuizViewResponse, error) {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if len(answer) != 1 || answer[0] < 'A' || answer[0] > 'D' {
		return nil, ErrInvalidAnswer
	}

	space, attempt, err := s.activeAttempt(ctx, token, username, spaceID)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if attempt.Completed {
		return s.view(attempt, space.QuizQuestions), nil
	}

	total := len(space.QuizQuestions)
	attempt.SubmittedAnswers[attempt.CurrentQuestion] = answer

	if attempt.CurrentQuestion < total-1 {
		attempt.CurrentQuestion++
	} else {
		attempt.Completed = true
		attempt.Score = computeScore(space.QuizQuestions, attempt.SubmittedAnswers)
	}

	return s.view(attempt, space.QuizQuestions), nil
}

// Previous steps back one question. Submitted answers stay as they are.
func (s *quizService) Previous(ctx context.Context, token, username, spaceID string) (*models.QuizViewResponse, error) {
	space, attempt, err := s.activeAttempt(ctx, token, username, spaceID)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !attempt.Completed && attempt.CurrentQuestion > 0 {
		attempt.CurrentQuestion--
	}

	return s.view(attempt, space.QuizQuestions), nil
}

// Retry resets the attempt completely and restarts from the first question.
func (s *quizService) Retry(ctx context.Context, token, username, spaceID string) (*models.QuizViewResponse, error) {
	space, _, err := s.activeAttempt(ctx, token, username, spaceID)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	attempt := models.NewQuizAttempt()
	s.attempts[attemptKey(token, spaceID)] = attempt

	return s.view(attempt, space.QuizQuestions), nil
}

func (s *quizService) activeAttempt(ctx context.Context, token, username, spaceID string) (*models.LearningSpace, *models.QuizAttempt, error) {
	space, err := s.spaces.Get(ctx, username, spaceID)
	if err != nil {
		return nil, nil, err
	}
	if len(space.QuizQuestions) == 0 {
		return nil, nil, fmt.Errorf("space %s has no quiz questions", spaceID)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := attemptKey(token, spaceID)
	attempt, exists := s.attempts[key]
	if !exists {
		attempt = models.NewQuizAttempt()
		s.attempts[key] = attempt
	}

	return space, attempt, nil
}

func computeScore(questions []models.QuizQuestion, submitted map[int]string) int {
	score := 0
	for i, q := range questions {
		if answer, ok := submitted[i]; ok && answer == q.Answer {
			score++
		}
	}
	return score
}

// view renders the attempt. Callers must not hold a stale copy: answers
// and explanations appear only after completion.
func (s *quizService) view(attempt *models.QuizAttempt, questions []models.QuizQuestion) *models.QuizViewResponse {
	total := len(questions)

	resp := &models.QuizViewResponse{
		Success:         true,
		Completed:       attempt.Completed,
		CurrentQuestion: attempt.CurrentQuestion,
		TotalQuestions:  total,
		Submitted:       attempt.SubmittedAnswers,
	}

	if !attempt.Completed {
		q := questions[attempt.CurrentQuestion]
		resp.Question = &models.QuestionView{
			Question: q.Question,
			Options:  q.Options,
		}
		return resp
	}

	resp.Score = attempt.Score
	resp.ScorePercent = float64(attempt.Score) / float64(total) * 100
	resp.Message = scoreMessage(attempt.Score, total, resp.ScorePercent)

	resp.Review = make([]models.QuizReviewEntry, 0, total)
	for i, q := range questions {
		submitted := attempt.SubmittedAnswers[i]
		if submitted == "" {
			submitted = "Not answered"
		}
		resp.Review = append(resp.Review, models.QuizReviewEntry{
			Question:    q.Question,
			Options:     q.Options,
			Submitted:   submitted,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}

	return resp
}

func scoreMessage(score, total int, percent float64) string {
	switch {
	case percent >= 80:
		return fmt.Sprintf("Great job! You scored %d/%d (%.1f%%)", score, total, percent)
	case percent >= 60:
		return fmt.Sprintf("Good effort! You scored %d/%d (%.1f%%)", score, total, percent)
	default:
		return fmt.Sprintf("You scored %d/%d (%.1f%%). Keep studying!", score, total, percent)
	}
}
