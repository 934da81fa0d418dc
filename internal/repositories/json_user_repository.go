package repositories

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/utils"
)

// seedAdminPassword is the password of the account seeded into a fresh
// credentials file.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "password"
)

// jsonUserRepository keeps credentials in a single JSON document mapping
// username to bcrypt hash. Every mutation rewrites the whole file.
type jsonUserRepository struct {
	file  *jsonFile
	mutex sync.RWMutex
}

func NewJSONUserRepository(dataDir string) UserRepository {
	return &jsonUserRepository{
		file: newJSONFile(dataDir, "users.json"),
	}
}

// defaultCredentials seeds the admin account a fresh installation starts
// with.
func (r *jsonUserRepository) defaultCredentials() interface{} {
	hash, err := utils.HashPassword(seedAdminPassword)
	if err != nil {
		log.WithError(err).Error("failed to hash the seed admin password")
		return map[string]string{}
	}
	log.Infof("📝 Seeded default account: username=%s", seedAdminUsername)
	return map[string]string{seedAdminUsername: hash}
}

func (r *jsonUserRepository) loadCredentials() (map[string]string, error) {
	users := make(map[string]string)
	if err := r.file.load(&users, r.defaultCredentials); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return users, nil
}

func (r *jsonUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	users, err := r.loadCredentials()
	if err != nil {
		return nil, err
	}

	hash, exists := users[username]
	if !exists {
		return nil, ErrNotFound
	}

	return &models.User{
		Username:     username,
		PasswordHash: hash,
	}, nil
}

func (r *jsonUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	users, err := r.loadCredentials()
	if err != nil {
		return err
	}

	if _, exists := users[user.Username]; exists {
		return fmt.Errorf("user %s already exists", user.Username)
	}

	users[user.Username] = user.PasswordHash
	return r.file.save(users)
}
