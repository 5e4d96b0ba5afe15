package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/validation"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type membershipRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	JoinCourse(ctx context.Context, userID, courseID string) (*models.User, error)
	UnjoinCourse(ctx context.Context, userID, courseID string) (*models.User, error)
}

type questionLister interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
}

// CourseService exposes the course catalogue and per-user membership that
// drives the personalised question feed.
type CourseService struct {
	courses   courseRepository
	users     membershipRepository
	questions questionLister
	validator *validator.Validate
	logger    *zap.Logger
	events    eventRecorder
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, users membershipRepository, questions questionLister, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &CourseService{courses: courses, users: users, questions: questions, validator: validate, logger: logger, events: noopRecorder{}}
}

// WithEvents attaches a recorder for domain counters.
func (s *CourseService) WithEvents(events eventRecorder) *CourseService {
	if events != nil {
		s.events = events
	}
	return s
}

// List returns courses matching the optional program, year and type filters.
func (s *CourseService) List(ctx context.Context, query dto.ListCoursesQuery) ([]models.Course, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err)
	}
	courses, err := s.courses.List(ctx, models.CourseFilter{
		Program: validation.Sanitize(query.Program),
		Year:    query.Year,
		Type:    models.CourseType(query.Type),
	})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Store(err, "failed to load course")
	}
	return course, nil
}

// Join adds the course to the caller's joined courses.
func (s *CourseService) Join(ctx context.Context, caller *models.Identity, courseID string) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if user.JoinedCourses.Contains(courseID) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you have already joined this course")
	}

	updated, err := s.users.JoinCourse(ctx, caller.ID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "you have already joined this course")
		}
		return nil, appErrors.Store(err, "failed to join course")
	}
	s.events.RecordEvent(EventCourseJoined, 1)
	return updated, nil
}

// Unjoin removes the course from the caller's joined courses. Leaving a
// course that was never joined is not an error.
func (s *CourseService) Unjoin(ctx context.Context, caller *models.Identity, courseID string) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	updated, err := s.users.UnjoinCourse(ctx, caller.ID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Store(err, "failed to leave course")
	}
	return updated, nil
}

// PersonalizedQuestions returns the questions of every course the caller has
// joined, read from the store rather than the session token.
func (s *CourseService) PersonalizedQuestions(ctx context.Context, caller *models.Identity) ([]models.Question, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if user.JoinedCourses.Len() == 0 {
		return []models.Question{}, nil
	}

	questions, err := s.questions.List(ctx, models.QuestionFilter{CourseIDs: user.JoinedCourses})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list questions")
	}
	return questions, nil
}

func (s *CourseService) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Store(err, "failed to load user")
	}
	return user, nil
}
