package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

const userColumns = `id, username, email, password_hash, role, bio, profile_picture, joined_courses, created_at, updated_at`

// UserRepository provides database access for forum accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "find user by id", `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id)
}

// FindByUsername returns a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "find user by username", `SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username)
}

// FindByEmail returns a user by exact email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "find user by email", `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, action, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return &user, nil
}

// List returns every user, oldest account first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.JoinedCourses == nil {
		user.JoinedCourses = models.IDSet{}
	}

	const query = `INSERT INTO users (id, username, email, password_hash, role, bio, profile_picture, joined_courses, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :role, :bio, :profile_picture, :joined_courses, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return mapUnique(err, "create user")
	}
	return nil
}

// Update applies the non-nil fields of upd and returns the stored record.
func (r *UserRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	var sets []string
	args := []interface{}{id}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("username", upd.Username)
	add("email", upd.Email)
	add("bio", upd.Bio)
	add("password_hash", upd.PasswordHash)
	add("profile_picture", upd.ProfilePicture)

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, mapUnique(err, "update user")
	}
	return &user, nil
}

// JoinCourse adds courseID to the user's joined courses. It returns
// sql.ErrNoRows when the user is missing or already a member.
func (r *UserRepository) JoinCourse(ctx context.Context, userID, courseID string) (*models.User, error) {
	const query = `UPDATE users SET joined_courses = array_append(joined_courses, $2), updated_at = $3 WHERE id = $1 AND NOT ($2 = ANY(joined_courses)) RETURNING ` + userColumns
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, userID, courseID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("join course: %w", err)
	}
	return &user, nil
}

// UnjoinCourse removes courseID from the user's joined courses.
func (r *UserRepository) UnjoinCourse(ctx context.Context, userID, courseID string) (*models.User, error) {
	const query = `UPDATE users SET joined_courses = array_remove(joined_courses, $2), updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, userID, courseID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("unjoin course: %w", err)
	}
	return &user, nil
}

// Search matches usernames containing q, case-insensitively.
func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]models.UserSummary, error) {
	const query = `SELECT id, username, profile_picture FROM users WHERE strpos(lower(username), lower($1)) > 0 ORDER BY username ASC LIMIT $2`
	users := []models.UserSummary{}
	if err := r.db.SelectContext(ctx, &users, query, q, limit); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// DeleteCascade removes the user, the user's questions with all their answers,
// and the user's answers elsewhere, keeping answer counters consistent. It
// returns the attachment references that belonged to the removed content.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) ([]string, error) {
	var files []string
	err := withTx(ctx, r.db, "delete user", func(tx *sqlx.Tx) error {
		var questionFiles []string
		if err := tx.SelectContext(ctx, &questionFiles, `SELECT attachment->>'path' FROM questions WHERE user_id = $1 AND attachment IS NOT NULL`, id); err != nil {
			return fmt.Errorf("collect question attachments: %w", err)
		}
		var answerFiles []string
		if err := tx.SelectContext(ctx, &answerFiles, `SELECT attachment FROM answers WHERE attachment <> '' AND (user_id = $1 OR question_id IN (SELECT id FROM questions WHERE user_id = $1))`, id); err != nil {
			return fmt.Errorf("collect answer attachments: %w", err)
		}
		files = append(questionFiles, answerFiles...)

		steps := []struct {
			action string
			query  string
		}{
			{"delete answers on user questions", `DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE user_id = $1)`},
			{"delete user questions", `DELETE FROM questions WHERE user_id = $1`},
			{"decrement answer counts", `UPDATE questions q SET answers_count = GREATEST(q.answers_count - a.n, 0) FROM (SELECT question_id, COUNT(*) AS n FROM answers WHERE user_id = $1 GROUP BY question_id) a WHERE q.id = a.question_id`},
			{"delete user answers", `DELETE FROM answers WHERE user_id = $1`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("%s: %w", step.action, err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ListUnhashed returns users whose stored password is not a bcrypt hash.
func (r *UserRepository) ListUnhashed(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE password_hash NOT LIKE '$2_$%' ORDER BY created_at ASC`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list unhashed users: %w", err)
	}
	return users, nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
