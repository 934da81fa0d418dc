package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/learnspace/back/internal/models"
)

type MySQLSpaceRepository struct {
	db *sqlx.DB
}

func NewMySQLSpaceRepository(db *sqlx.DB) SpaceRepository {
	return &MySQLSpaceRepository{db: db}
}

// spaceRow is the table shape; resources and quiz questions are stored as
// JSON columns so the record stays structurally identical to the file
// store's representation.
type spaceRow struct {
	ID            string `db:"id"`
	Username      string `db:"username"`
	Topic         string `db:"topic"`
	CreatedAt     string `db:"created_at"`
	LastAccessed  string `db:"last_accessed"`
	Content       string `db:"content"`
	Resources     []byte `db:"resources"`
	HasQuiz       bool   `db:"has_quiz"`
	QuizQuestions []byte `db:"quiz_questions"`
	Position      int    `db:"position"`
}

func (row *spaceRow) toModel() (*models.LearningSpace, error) {
	space := &models.LearningSpace{
		ID:           row.ID,
		Topic:        row.Topic,
		CreatedAt:    row.CreatedAt,
		LastAccessed: row.LastAccessed,
		Content:      row.Content,
		HasQuiz:      row.HasQuiz,
	}

	if len(row.Resources) > 0 {
		if err := json.Unmarshal(row.Resources, &space.Resources); err != nil {
			return nil, fmt.Errorf("failed to decode resources: %w", err)
		}
	}
	if len(row.QuizQuestions) > 0 {
		if err := json.Unmarshal(row.QuizQuestions, &space.QuizQuestions); err != nil {
			return nil, fmt.Errorf("failed to decode quiz questions: %w", err)
		}
	}
	if space.QuizQuestions == nil {
		space.QuizQuestions = []models.QuizQuestion{}
	}

	return space, nil
}

func encodeSpace(space models.LearningSpace) (resources, questions []byte, err error) {
	resources, err = json.Marshal(space.Resources)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode resources: %w", err)
	}
	if space.QuizQuestions == nil {
		space.QuizQuestions = []models.QuizQuestion{}
	}
	questions, err = json.Marshal(space.QuizQuestions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode quiz questions: %w", err)
	}
	return resources, questions, nil
}

func (r *MySQLSpaceRepository) ListByUser(ctx context.Context, username string) ([]models.LearningSpace, error) {
	var rows []spaceRow
	query := `
		SELECT id, username, topic, created_at, last_accessed, content,
			   resources, has_quiz, quiz_questions, position
		FROM learning_spaces WHERE username = ? ORDER BY position
	`

	if err := r.db.SelectContext(ctx, &rows, query, username); err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}

	spaces := make([]models.LearningSpace, 0, len(rows))
	for i := range rows {
		space, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, *space)
	}

	return spaces, nil
}

func (r *MySQLSpaceRepository) GetByID(ctx context.Context, username, spaceID string) (*models.LearningSpace, error) {
	var row spaceRow
	query := `
		SELECT id, username, topic, created_at, last_accessed, content,
			   resources, has_quiz, quiz_questions, position
		FROM learning_spaces WHERE username = ? AND id = ?
	`

	if err := r.db.GetContext(ctx, &row, query, username, spaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch space: %w", err)
	}

	return row.toModel()
}

func (r *MySQLSpaceRepository) Append(ctx context.Context, username string, space models.LearningSpace) error {
	resources, questions, err := encodeSpace(space)
	if err != nil {
		return err
	}

	// INSERT..SELECT so the next position can be computed from the same
	// table in one statement.
	query := `
		INSERT INTO learning_spaces
			(id, username, topic, created_at, last_accessed, content,
			 resources, has_quiz, quiz_questions, position)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(position), 0) + 1
		FROM learning_spaces WHERE username = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		space.ID, username, space.Topic, space.CreatedAt, space.LastAccessed,
		space.Content, resources, space.HasQuiz, questions, username)
	if err != nil {
		return fmt.Errorf("failed to append space: %w", err)
	}

	return nil
}

func (r *MySQLSpaceRepository) Update(ctx context.Context, username string, space models.LearningSpace) error {
	resources, questions, err := encodeSpace(space)
	if err != nil {
		return err
	}

	query := `
		UPDATE learning_spaces
		SET topic = ?, created_at = ?, last_accessed = ?, content = ?,
			resources = ?, has_quiz = ?, quiz_questions = ?
		WHERE username = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		space.Topic, space.CreatedAt, space.LastAccessed, space.Content,
		resources, space.HasQuiz, questions, username, space.ID)
	if err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MySQLSpaceRepository) Delete(ctx context.Context, username, spaceID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM learning_spaces WHERE username = ? AND id = ?`, username, spaceID)
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MySQLSpaceRepository) TouchLastAccessed(ctx context.Context, username, spaceID, timestamp string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE learning_spaces SET last_accessed = ? WHERE username = ? AND id = ?`,
		timestamp, username, spaceID)
	if err != nil {
		return fmt.Errorf("failed to touch space: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read touch result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
