package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

var courseRowColumns = []string{"id", "title", "type", "year", "description", "programs", "program_years"}

func TestListCoursesByProgramUsesProgramYear(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE $1 = ANY(programs) AND COALESCE((program_years->>$1)::int, year) = $2 AND type = $3 ORDER BY year ASC, title ASC")).
		WithArgs("preddiplomski-matematika", 3, "obavezni").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c12", "Numerička analiza", "obavezni", 2, "", "{preddiplomski-matematika}", []byte(`{"preddiplomski-matematika":3}`)))

	courses, err := repo.List(context.Background(), models.CourseFilter{Program: "preddiplomski-matematika", Year: 3, Type: models.CourseMandatory})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].EffectiveYear("preddiplomski-matematika"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCoursesByYearOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE year = $1 ORDER BY")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c11", "Baze podataka", "obavezni", 2, "Relacijske baze, SQL, normalizacija", "{}", []byte(`{}`)))

	courses, err := repo.List(context.Background(), models.CourseFilter{Year: 2})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Baze podataka", courses[0].Title)
}

func TestFindCourseMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("FROM courses WHERE id = ").WithArgs("c99").WillReturnRows(sqlmock.NewRows(courseRowColumns))

	_, err := repo.FindByID(context.Background(), "c99")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestSearchCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE strpos(lower(title), lower($1)) > 0 OR strpos(lower(description), lower($1)) > 0")).
		WithArgs("sql", 10).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c11", "Baze podataka", "obavezni", 2, "Relacijske baze, SQL, normalizacija", "{}", nil))

	courses, err := repo.Search(context.Background(), "sql", 10)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.NotNil(t, courses[0].ProgramYears)
}

func TestUpsertCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses (id, title, type, year, description, programs, program_years)")).
		WithArgs("c11", "Baze podataka", "obavezni", 2, "Relacijske baze", `{"preddiplomski-matematika-racunarstvo"}`, `{"preddiplomski-matematika-racunarstvo":2}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.Course{
		ID:           "c11",
		Title:        "Baze podataka",
		Type:         models.CourseMandatory,
		Year:         2,
		Description:  "Relacijske baze",
		Programs:     []string{"preddiplomski-matematika-racunarstvo"},
		ProgramYears: models.ProgramYears{"preddiplomski-matematika-racunarstvo": 2},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
