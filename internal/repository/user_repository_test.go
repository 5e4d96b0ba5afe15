package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "postgres")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userRowColumns = []string{"id", "username", "email", "password_hash", "role", "bio", "profile_picture", "joined_courses", "created_at", "updated_at"}

func userRows(joined string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).
		AddRow("u1", "ana", "ana@example.com", "$2a$10$hash", "student", "", "", joined, now, now)
}

func TestFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE username = $1 LIMIT 1")).
		WithArgs("ana").
		WillReturnRows(userRows("{c11}"))

	user, err := repo.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, models.IDSet{"c11"}, user.JoinedCourses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err := repo.Create(context.Background(), &models.User{Username: "ana", Email: "ana@example.com", Role: models.RoleStudent})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "users_username_key")
}

func TestCreateUserDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Username: "ana", Email: "ana@example.com", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.NotNil(t, user.JoinedCourses)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileOnlyTouchesGivenFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	bio := "volim integrale"
	email := "ana@uni.hr"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email = $2, bio = $3, updated_at = $4 WHERE id = $1 RETURNING")).
		WithArgs("u1", email, bio, sqlmock.AnyArg()).
		WillReturnRows(userRows("{}"))

	user, err := repo.Update(context.Background(), "u1", models.ProfileUpdate{Email: &email, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinCourseGuardsMembership(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	query := regexp.QuoteMeta("UPDATE users SET joined_courses = array_append(joined_courses, $2), updated_at = $3 WHERE id = $1 AND NOT ($2 = ANY(joined_courses))")
	mock.ExpectQuery(query).
		WithArgs("u1", "c11", sqlmock.AnyArg()).
		WillReturnRows(userRows("{c11}"))
	mock.ExpectQuery(query).
		WithArgs("u1", "c11", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	user, err := repo.JoinCourse(context.Background(), "u1", "c11")
	require.NoError(t, err)
	assert.True(t, user.JoinedCourses.Contains("c11"))

	_, err = repo.JoinCourse(context.Background(), "u1", "c11")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnjoinCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SET joined_courses = array_remove(joined_courses, $2)")).
		WithArgs("u1", "c11", sqlmock.AnyArg()).
		WillReturnRows(userRows("{}"))

	user, err := repo.UnjoinCourse(context.Background(), "u1", "c11")
	require.NoError(t, err)
	assert.Zero(t, user.JoinedCourses.Len())
}

func TestSearchUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, profile_picture FROM users WHERE strpos(lower(username), lower($1)) > 0 ORDER BY username ASC LIMIT $2")).
		WithArgs("an%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "profile_picture"}))

	users, err := repo.Search(context.Background(), "an%", 10)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestDeleteUserCascade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT attachment->>'path' FROM questions WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"path"}).AddRow("/uploads/q.pdf"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT attachment FROM answers")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"attachment"}).AddRow("/uploads/a.png"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE user_id = $1)")).
		WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM questions WHERE user_id = $1")).
		WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions q SET answers_count = GREATEST(q.answers_count - a.n, 0)")).
		WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM answers WHERE user_id = $1")).
		WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	files, err := repo.DeleteCascade(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/q.pdf", "/uploads/a.png"}, files)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserCascadeRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT attachment->>'path'").WillReturnRows(sqlmock.NewRows([]string{"path"}))
	mock.ExpectQuery("SELECT attachment FROM answers").WillReturnRows(sqlmock.NewRows([]string{"attachment"}))
	mock.ExpectExec("DELETE FROM answers WHERE question_id IN").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.DeleteCascade(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete answers on user questions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnhashed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE password_hash NOT LIKE '$2_$%'")).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow("u9", "legacy", "legacy@example.com", "plaintext", "student", "", "", "{}", now, now))

	users, err := repo.ListUnhashed(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "plaintext", users[0].PasswordHash)
}
