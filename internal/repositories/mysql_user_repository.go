package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/utils"
)

type MySQLUserRepository struct {
	db *sqlx.DB
}

func NewMySQLUserRepository(db *sqlx.DB) UserRepository {
	repo := &MySQLUserRepository{db: db}

	if err := repo.seedDefaultUser(); err != nil {
		log.Warnf("failed to seed default user: %v", err)
	}

	return repo
}

func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT username, password_hash, created_at FROM users WHERE username = ?`

	err := r.db.GetContext(ctx, user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return user, nil
}

func (r *MySQLUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// seedDefaultUser mirrors the JSON store's behavior: a fresh database gets
// the admin account so the application is usable immediately.
func (r *MySQLUserRepository) seedDefaultUser() error {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(seedAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return r.Create(context.Background(), &models.User{
		Username:     seedAdminUsername,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
}
