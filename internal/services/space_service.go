package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/learnspace/back/internal/config"
	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/repositories"
)

// SpaceService owns the lifecycle of learning spaces. Creation eagerly
// generates the overview and the resource list; the quiz is generated
// lazily on first quiz view.
type SpaceService interface {
	Create(ctx context.Context, username, topic string, customization models.Customization) (string, error)
	List(ctx context.Context, username string) ([]models.LearningSpace, error)
	Get(ctx context.Context, username, spaceID string) (*models.LearningSpace, error)
	Touch(ctx context.Context, username, spaceID string) error
	Delete(ctx context.Context, username, spaceID string) error
	Regenerate(ctx context.Context, username, spaceID string, customization models.Customization) (*models.LearningSpace, error)
	EnsureQuiz(ctx context.Context, username, spaceID, difficulty string) (*models.LearningSpace, error)
	EnsureResources(ctx context.Context, username, spaceID string) (*models.LearningSpace, error)
}

type spaceService struct {
	spaceRepo repositories.SpaceRepository
	generator GeneratorService
}

func NewSpaceService(spaceRepo repositories.SpaceRepository, generator GeneratorService) SpaceService {
	return &spaceService{
		spaceRepo: spaceRepo,
		generator: generator,
	}
}

func (s *spaceService) Create(ctx context.Context, username, topic string, customization models.Customization) (string, error) {
	log := config.WithContext(ctx)

	now := time.Now().Format(models.TimestampFormat)
	space := models.LearningSpace{
		ID:            uuid.New().String(),
		Topic:         topic,
		CreatedAt:     now,
		LastAccessed:  now,
		Content:       s.generator.GenerateOverview(ctx, topic, customization),
		Resources:     s.generator.GenerateResources(ctx, topic),
		HasQuiz:       false,
		QuizQuestions: []models.QuizQuestion{},
	}

	if err := s.spaceRepo.Append(ctx, username, space); err != nil {
		return "", fmt.Errorf("failed to persist space: %w", err)
	}

	log.Infof("✅ Created learning space %s for user %s (topic: %q)", space.ID, username, topic)
	return space.ID, nil
}

func (s *spaceService) List(ctx context.Context, username string) ([]models.LearningSpace, error) {
	return s.spaceRepo.ListByUser(ctx, username)
}

func (s *spaceService) Get(ctx context.Context, username, spaceID string) (*models.LearningSpace, error) {
	return s.spaceRepo.GetByID(ctx, username, spaceID)
}

func (s *spaceService) Touch(ctx context.Context, username, spaceID string) error {
	now := time.Now().Format(models.TimestampFormat)
	return s.spaceRepo.TouchLastAccessed(ctx, username, spaceID, now)
}

func (s *spaceService) Delete(ctx context.Context, username, spaceID string) error {
	return s.spaceRepo.Delete(ctx, username, spaceID)
}

// Regenerate rebuilds only the long-form content with the new
// customization profile. Resources and quiz questions are deliberately
// left alone; reapplying preferences should not throw away a quiz in
// progress or a curated list the user has been reading.
func (s *spaceService) Regenerate(ctx context.Context, username, spaceID string, customization models.Customization) (*models.LearningSpace, error) {
	space, err := s.spaceRepo.GetByID(ctx, username, spaceID)
	if err != nil {
		return nil, err
	}

	space.Content = s.generator.GenerateOverview(ctx, space.Topic, customization)

	if err := s.spaceRepo.Update(ctx, username, *space); err != nil {
		return nil, fmt.Errorf("failed to persist regenerated content: %w", err)
	}

	return space, nil
}

// EnsureQuiz generates the quiz on first demand. HasQuiz flips to true even
// when generation came back empty; the quiz view reports the failure and
// the next visit triggers another attempt only after a retry resets it.
func (s *spaceService) EnsureQuiz(ctx context.Context, username, spaceID, difficulty string) (*models.LearningSpace, error) {
	space, err := s.spaceRepo.GetByID(ctx, username, spaceID)
	if err != nil {
		return nil, err
	}

	if space.HasQuiz && len(space.QuizQuestions) > 0 {
		return space, nil
	}

	space.QuizQuestions = s.generator.GenerateQuiz(ctx, space.Topic, difficulty, DefaultQuizCount)
	space.HasQuiz = true

	if err := s.spaceRepo.Update(ctx, username, *space); err != nil {
		return nil, fmt.Errorf("failed to persist quiz questions: %w", err)
	}

	return space, nil
}

// EnsureResources lazily fills the resource list for spaces that still lack
// one.
func (s *spaceService) EnsureResources(ctx context.Context, username, spaceID string) (*models.LearningSpace, error) {
	space, err := s.spaceRepo.GetByID(ctx, username, spaceID)
	if err != nil {
		return nil, err
	}

	if !space.Resources.IsEmpty() {
		return space, nil
	}

	space.Resources = s.generator.GenerateResources(ctx, space.Topic)
	if space.Resources.IsEmpty() {
		// Nothing came back; report the empty set without persisting so
		// the next visit tries again.
		return space, nil
	}

	if err := s.spaceRepo.Update(ctx, username, *space); err != nil {
		return nil, fmt.Errorf("failed to persist resources: %w", err)
	}

	return space, nil
}
