package repositories

import (
	"context"
	"errors"

	"github.com/learnspace/back/internal/models"
)

// ErrNotFound is returned when a looked-up user or space does not exist.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// SpaceRepository persists each user's ordered list of learning spaces.
// Updates replace the stored record with the same id; order of the
// remaining records is always preserved.
type SpaceRepository interface {
	ListByUser(ctx context.Context, username string) ([]models.LearningSpace, error)
	GetByID(ctx context.Context, username, spaceID string) (*models.LearningSpace, error)
	Append(ctx context.Context, username string, space models.LearningSpace) error
	Update(ctx context.Context, username string, space models.LearningSpace) error
	Delete(ctx context.Context, username, spaceID string) error
	TouchLastAccessed(ctx context.Context, username, spaceID, timestamp string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
