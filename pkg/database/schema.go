package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is idempotent; it is applied by `forumctl migrate` or at startup when
// DB_AUTO_MIGRATE is set.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'admin')),
	bio TEXT NOT NULL DEFAULT '',
	profile_picture TEXT NOT NULL DEFAULT '',
	joined_courses TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	`UPDATE users SET joined_courses = '{}' WHERE joined_courses IS NULL`,

	`CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('obavezni', 'izborni')),
	year INTEGER NOT NULL CHECK (year BETWEEN 1 AND 5),
	description TEXT NOT NULL DEFAULT '',
	programs TEXT[] NOT NULL DEFAULT '{}',
	program_years JSONB NOT NULL DEFAULT '{}'
)`,
	`CREATE INDEX IF NOT EXISTS courses_year_idx ON courses (year)`,
	`CREATE INDEX IF NOT EXISTS courses_type_idx ON courses (type)`,

	`CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	course_id TEXT NOT NULL REFERENCES courses (id),
	user_id TEXT NOT NULL REFERENCES users (id),
	author_username TEXT NOT NULL,
	author_role TEXT NOT NULL,
	answers_count INTEGER NOT NULL DEFAULT 0 CHECK (answers_count >= 0),
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	likes TEXT[] NOT NULL DEFAULT '{}',
	attachment JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS questions_course_id_idx ON questions (course_id)`,
	`CREATE INDEX IF NOT EXISTS questions_user_id_idx ON questions (user_id)`,
	`CREATE INDEX IF NOT EXISTS questions_created_at_idx ON questions (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS answers (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	question_id TEXT NOT NULL REFERENCES questions (id),
	user_id TEXT NOT NULL REFERENCES users (id),
	author_username TEXT NOT NULL,
	author_role TEXT NOT NULL,
	is_highlighted BOOLEAN NOT NULL DEFAULT FALSE,
	likes TEXT[] NOT NULL DEFAULT '{}',
	attachment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS answers_question_id_idx ON answers (question_id)`,
	`CREATE INDEX IF NOT EXISTS answers_user_id_idx ON answers (user_id)`,
	`CREATE INDEX IF NOT EXISTS answers_created_at_idx ON answers (created_at DESC)`,
}

// Migrate applies the schema statements in order inside one transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
