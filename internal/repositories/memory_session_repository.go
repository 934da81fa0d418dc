package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/learnspace/back/internal/models"
)

// Sessions are deliberately memory-only: view state, chat context and quiz
// progress all die with the process, matching the session-scoped lifecycle
// of the interactive surface.
type memorySessionRepository struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*models.Session),
	}
}

func (r *memorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.Token] = session
	return nil
}

func (r *memorySessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[token]
	if !exists {
		return nil, ErrNotFound
	}

	return session, nil
}

func (r *memorySessionRepository) Update(ctx context.Context, session *models.Session) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sessions[session.Token]; !exists {
		return ErrNotFound
	}

	r.sessions[session.Token] = session
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *memorySessionRepository) DeleteExpired(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for token, session := range r.sessions {
		if now.After(session.ExpiresAt) {
			delete(r.sessions, token)
		}
	}

	return nil
}
