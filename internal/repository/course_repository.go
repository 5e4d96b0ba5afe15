package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

const courseColumns = `id, title, type, year, description, programs, program_years`

// CourseRepository provides read access to the course catalogue and the
// upsert used by seeding.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses ordered by year and title. With a program filter the
// year is compared against the program specific year when one is set.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	var conditions []string
	var args []interface{}

	if filter.Program != "" {
		args = append(args, filter.Program)
		programArg := len(args)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(programs)", programArg))
		if filter.Year > 0 {
			args = append(args, filter.Year)
			conditions = append(conditions, fmt.Sprintf("COALESCE((program_years->>$%d)::int, year) = $%d", programArg, len(args)))
		}
	} else if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + courseColumns + ` FROM courses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY year ASC, title ASC"

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// Search matches title or description containing q, case-insensitively.
func (r *CourseRepository) Search(ctx context.Context, q string, limit int) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE strpos(lower(title), lower($1)) > 0 OR strpos(lower(description), lower($1)) > 0 ORDER BY year ASC, title ASC LIMIT $2`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, q, limit); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// Upsert inserts or replaces a catalogue entry by id.
func (r *CourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (id, title, type, year, description, programs, program_years)
VALUES (:id, :title, :type, :year, :description, :programs, :program_years)
ON CONFLICT (id)
DO UPDATE SET title = EXCLUDED.title, type = EXCLUDED.type, year = EXCLUDED.year,
              description = EXCLUDED.description, programs = EXCLUDED.programs, program_years = EXCLUDED.program_years`
	if course.Programs == nil {
		course.Programs = []string{}
	}
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}
