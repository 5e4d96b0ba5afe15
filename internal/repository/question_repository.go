package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

const questionColumns = `id, title, content, course_id, user_id, author_username AS "author.username", author_role AS "author.role", answers_count, is_completed, likes, attachment, created_at`

// QuestionRepository provides database access for questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question with a zero answer counter.
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.Likes == nil {
		q.Likes = models.IDSet{}
	}

	const query = `INSERT INTO questions (id, title, content, course_id, user_id, author_username, author_role, answers_count, is_completed, likes, attachment, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(ctx, query,
		q.ID, q.Title, q.Content, q.CourseID, q.UserID, q.Author.Username, q.Author.Role,
		q.AnswersCount, q.IsCompleted, q.Likes, q.Attachment, q.CreatedAt,
	); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// FindByID returns a question by identifier.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE id = $1 LIMIT 1`
	var q models.Question
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return &q, nil
}

// List returns questions newest first, narrowed by filter.
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	var conditions []string
	var args []interface{}

	if filter.CourseIDs != nil {
		args = append(args, pq.Array(filter.CourseIDs))
		conditions = append(conditions, fmt.Sprintf("course_id = ANY($%d)", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}

	query := `SELECT ` + questionColumns + ` FROM questions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	questions := []models.Question{}
	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// SetCompleted stores the completion flag and returns the updated question.
func (r *QuestionRepository) SetCompleted(ctx context.Context, id string, completed bool) (*models.Question, error) {
	const query = `UPDATE questions SET is_completed = $2 WHERE id = $1 RETURNING ` + questionColumns
	var q models.Question
	if err := r.db.GetContext(ctx, &q, query, id, completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update question completion: %w", err)
	}
	return &q, nil
}

// ToggleLike flips userID's membership in the likes set in one statement.
func (r *QuestionRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Question, error) {
	const query = `UPDATE questions SET likes = CASE WHEN $2 = ANY(likes) THEN array_remove(likes, $2) ELSE array_append(likes, $2) END WHERE id = $1 RETURNING ` + questionColumns
	var q models.Question
	if err := r.db.GetContext(ctx, &q, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("toggle question like: %w", err)
	}
	return &q, nil
}

// DeleteCascade removes the question together with all of its answers and
// returns the attachment references of the removed answers.
func (r *QuestionRepository) DeleteCascade(ctx context.Context, id string) ([]string, error) {
	var files []string
	err := withTx(ctx, r.db, "delete question", func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &files, `DELETE FROM answers WHERE question_id = $1 RETURNING attachment`, id); err != nil {
			return fmt.Errorf("delete question answers: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonEmpty(files), nil
}

// Search matches title or content containing q, case-insensitively.
func (r *QuestionRepository) Search(ctx context.Context, q string, limit int) ([]models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE strpos(lower(title), lower($1)) > 0 OR strpos(lower(content), lower($1)) > 0 ORDER BY created_at DESC LIMIT $2`
	questions := []models.Question{}
	if err := r.db.SelectContext(ctx, &questions, query, q, limit); err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return questions, nil
}

// ReconcileAnswerCounts rewrites every answers_count that differs from the
// number of stored answers and returns the corrections made.
func (r *QuestionRepository) ReconcileAnswerCounts(ctx context.Context) ([]models.AnswerCountCorrection, error) {
	const query = `UPDATE questions q SET answers_count = c.actual
FROM (
	SELECT q2.id, q2.answers_count AS stored, COUNT(a.id)::int AS actual
	FROM questions q2 LEFT JOIN answers a ON a.question_id = q2.id
	GROUP BY q2.id, q2.answers_count
) c
WHERE q.id = c.id AND c.stored <> c.actual
RETURNING q.id AS question_id, c.stored, c.actual`
	corrections := []models.AnswerCountCorrection{}
	if err := r.db.SelectContext(ctx, &corrections, query); err != nil {
		return nil, fmt.Errorf("reconcile answer counts: %w", err)
	}
	return corrections, nil
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
