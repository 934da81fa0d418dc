package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/learnspace/back/internal/models"
)

// jsonSpaceRepository keeps every user's ordered space list in a single
// JSON document mapping username to list. Like the credentials file, each
// mutation is a full read-modify-rewrite.
type jsonSpaceRepository struct {
	file  *jsonFile
	mutex sync.RWMutex
}

func NewJSONSpaceRepository(dataDir string) SpaceRepository {
	return &jsonSpaceRepository{
		file: newJSONFile(dataDir, "user_spaces.json"),
	}
}

func defaultSpaces() interface{} {
	return map[string][]models.LearningSpace{}
}

func (r *jsonSpaceRepository) loadSpaces() (map[string][]models.LearningSpace, error) {
	spaces := make(map[string][]models.LearningSpace)
	if err := r.file.load(&spaces, defaultSpaces); err != nil {
		return nil, fmt.Errorf("failed to load spaces: %w", err)
	}
	return spaces, nil
}

func (r *jsonSpaceRepository) ListByUser(ctx context.Context, username string) ([]models.LearningSpace, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return nil, err
	}

	return spaces[username], nil
}

func (r *jsonSpaceRepository) GetByID(ctx context.Context, username, spaceID string) (*models.LearningSpace, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return nil, err
	}

	for _, space := range spaces[username] {
		if space.ID == spaceID {
			found := space
			return &found, nil
		}
	}

	return nil, ErrNotFound
}

func (r *jsonSpaceRepository) Append(ctx context.Context, username string, space models.LearningSpace) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return err
	}

	spaces[username] = append(spaces[username], space)
	return r.file.save(spaces)
}

func (r *jsonSpaceRepository) Update(ctx context.Context, username string, space models.LearningSpace) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return err
	}

	for i, existing := range spaces[username] {
		if existing.ID == space.ID {
			spaces[username][i] = space
			return r.file.save(spaces)
		}
	}

	return ErrNotFound
}

func (r *jsonSpaceRepository) Delete(ctx context.Context, username, spaceID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return err
	}

	list := spaces[username]
	kept := make([]models.LearningSpace, 0, len(list))
	for _, space := range list {
		if space.ID != spaceID {
			kept = append(kept, space)
		}
	}

	if len(kept) == len(list) {
		return ErrNotFound
	}

	spaces[username] = kept
	return r.file.save(spaces)
}

func (r *jsonSpaceRepository) TouchLastAccessed(ctx context.Context, username, spaceID, timestamp string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	spaces, err := r.loadSpaces()
	if err != nil {
		return err
	}

	for i, space := range spaces[username] {
		if space.ID == spaceID {
			spaces[username][i].LastAccessed = timestamp
			return r.file.save(spaces)
		}
	}

	return ErrNotFound
}
