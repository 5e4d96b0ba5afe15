package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
)

// SearchLimit caps the hits returned per entity kind.
const SearchLimit = 10

type questionSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.Question, error)
}

type userSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.UserSummary, error)
}

type courseSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

// SearchService runs one query across questions, users and courses.
type SearchService struct {
	questions questionSearcher
	users     userSearcher
	courses   courseSearcher
	logger    *zap.Logger
}

// NewSearchService constructs a SearchService.
func NewSearchService(questions questionSearcher, users userSearcher, courses courseSearcher, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{questions: questions, users: users, courses: courses, logger: logger}
}

// Search matches q as a literal, case-insensitive substring. A blank query
// returns three empty lists.
func (s *SearchService) Search(ctx context.Context, q string) (*models.SearchResult, error) {
	result := &models.SearchResult{
		Questions: []models.SearchQuestion{},
		Users:     []models.UserSummary{},
		Courses:   []models.Course{},
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return result, nil
	}

	questions, err := s.questions.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to search questions")
	}
	users, err := s.users.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to search users")
	}
	courses, err := s.courses.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to search courses")
	}

	if len(questions) > 0 {
		all, err := s.courses.List(ctx, models.CourseFilter{})
		if err != nil {
			return nil, appErrors.Store(err, "failed to resolve course names")
		}
		names := make(map[string]string, len(all))
		for _, c := range all {
			names[c.ID] = c.Title
		}
		for _, question := range questions {
			result.Questions = append(result.Questions, models.SearchQuestion{Question: question, CourseName: names[question.CourseID]})
		}
	}
	if users != nil {
		result.Users = users
	}
	if courses != nil {
		result.Courses = courses
	}
	return result, nil
}
