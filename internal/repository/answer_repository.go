package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

const answerColumns = `id, content, question_id, user_id, author_username AS "author.username", author_role AS "author.role", is_highlighted, likes, attachment, created_at, updated_at`

// AnswerRepository provides database access for answers. Every write that
// adds or removes an answer also maintains the parent's answers_count in the
// same transaction.
type AnswerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository creates a new instance of AnswerRepository.
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// CreateWithCount inserts the answer and increments the question's counter.
// It returns sql.ErrNoRows when the question does not exist.
func (r *AnswerRepository) CreateWithCount(ctx context.Context, a *models.Answer) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt
	if a.Likes == nil {
		a.Likes = models.IDSet{}
	}

	return withTx(ctx, r.db, "create answer", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE questions SET answers_count = answers_count + 1 WHERE id = $1`, a.QuestionID)
		if err != nil {
			return fmt.Errorf("increment answer count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}

		const insert = `INSERT INTO answers (id, content, question_id, user_id, author_username, author_role, is_highlighted, likes, attachment, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := tx.ExecContext(ctx, insert,
			a.ID, a.Content, a.QuestionID, a.UserID, a.Author.Username, a.Author.Role,
			a.IsHighlighted, a.Likes, a.Attachment, a.CreatedAt, a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("create answer: %w", err)
		}
		return nil
	})
}

// FindByID returns an answer by identifier.
func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*models.Answer, error) {
	const query = `SELECT ` + answerColumns + ` FROM answers WHERE id = $1 LIMIT 1`
	var a models.Answer
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find answer by id: %w", err)
	}
	return &a, nil
}

// List returns answers oldest first, optionally for one question.
func (r *AnswerRepository) List(ctx context.Context, questionID string) ([]models.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers`
	var args []interface{}
	if questionID != "" {
		query += ` WHERE question_id = $1`
		args = append(args, questionID)
	}
	query += ` ORDER BY created_at ASC`

	answers := []models.Answer{}
	if err := r.db.SelectContext(ctx, &answers, query, args...); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// UpdateContent replaces the answer body and returns the stored record.
func (r *AnswerRepository) UpdateContent(ctx context.Context, id, content string) (*models.Answer, error) {
	const query = `UPDATE answers SET content = $2, updated_at = $3 WHERE id = $1 RETURNING ` + answerColumns
	var a models.Answer
	if err := r.db.GetContext(ctx, &a, query, id, content, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update answer: %w", err)
	}
	return &a, nil
}

// DeleteWithCount removes the answer and decrements its question's counter,
// never below zero.
func (r *AnswerRepository) DeleteWithCount(ctx context.Context, id string) error {
	return withTx(ctx, r.db, "delete answer", func(tx *sqlx.Tx) error {
		var questionID string
		if err := tx.GetContext(ctx, &questionID, `DELETE FROM answers WHERE id = $1 RETURNING question_id`, id); err != nil {
			if err == sql.ErrNoRows {
				return err
			}
			return fmt.Errorf("delete answer: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE questions SET answers_count = GREATEST(answers_count - 1, 0) WHERE id = $1`, questionID); err != nil {
			return fmt.Errorf("decrement answer count: %w", err)
		}
		return nil
	})
}

// ToggleLike flips userID's membership in the likes set in one statement.
func (r *AnswerRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Answer, error) {
	const query = `UPDATE answers SET likes = CASE WHEN $2 = ANY(likes) THEN array_remove(likes, $2) ELSE array_append(likes, $2) END WHERE id = $1 RETURNING ` + answerColumns
	var a models.Answer
	if err := r.db.GetContext(ctx, &a, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("toggle answer like: %w", err)
	}
	return &a, nil
}
