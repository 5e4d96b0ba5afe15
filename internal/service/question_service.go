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

type questionRepository interface {
	Create(ctx context.Context, q *models.Question) error
	FindByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*models.Question, error)
	ToggleLike(ctx context.Context, id, userID string) (*models.Question, error)
	DeleteCascade(ctx context.Context, id string) ([]string, error)
	ReconcileAnswerCounts(ctx context.Context) ([]models.AnswerCountCorrection, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// QuestionService implements the question lifecycle: creation, completion,
// likes and cascading deletion.
type QuestionService struct {
	repo        questionRepository
	courses     courseFinder
	attachments attachmentStore
	validator   *validator.Validate
	logger      *zap.Logger
	events      eventRecorder
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(repo questionRepository, courses courseFinder, attachments attachmentStore, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if attachments == nil {
		attachments = noAttachments{}
	}
	return &QuestionService{repo: repo, courses: courses, attachments: attachments, validator: validate, logger: logger, events: noopRecorder{}}
}

// WithEvents attaches a recorder for domain counters.
func (s *QuestionService) WithEvents(events eventRecorder) *QuestionService {
	if events != nil {
		s.events = events
	}
	return s
}

// Create stores a new question in a course. Nothing is persisted, and no
// file is stored, when validation fails.
func (s *QuestionService) Create(ctx context.Context, caller *models.Identity, req dto.CreateQuestionRequest, upload *dto.Upload) (*models.Question, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	req.Title = validation.Sanitize(req.Title)
	req.Content = validation.Sanitize(req.Content)
	req.CourseID = validation.Sanitize(req.CourseID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Store(err, "failed to load course")
	}

	question := &models.Question{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: req.CourseID,
		UserID:   caller.ID,
		Author:   models.Author{Username: caller.Username, Role: caller.Role},
		Likes:    models.IDSet{},
	}

	if upload != nil {
		att, err := s.attachments.StoreAttachment(ctx, upload)
		if err != nil {
			return nil, err
		}
		question.Attachment = att
	}

	if err := s.repo.Create(ctx, question); err != nil {
		if question.Attachment != nil {
			s.attachments.Remove(ctx, question.Attachment.Path)
		}
		return nil, appErrors.Store(err, "failed to create question")
	}

	s.events.RecordEvent(EventQuestionCreated, 1)
	return question, nil
}

// Get returns a question by id.
func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Store(err, "failed to load question")
	}
	return question, nil
}

// List returns questions newest first.
func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	if filter.CourseIDs != nil && len(filter.CourseIDs) == 0 {
		return []models.Question{}, nil
	}
	questions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list questions")
	}
	return questions, nil
}

// UpdateCompletion sets isCompleted. Only the author may do this, admins
// included.
func (s *QuestionService) UpdateCompletion(ctx context.Context, caller *models.Identity, id string, req dto.UpdateQuestionRequest) (*models.Question, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "isCompleted must be a boolean")
	}

	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !question.OwnedBy(*caller) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can change the question status")
	}

	updated, err := s.repo.SetCompleted(ctx, id, *req.IsCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Store(err, "failed to update question")
	}
	return updated, nil
}

// ToggleLike adds the caller to the likes set, or removes them if present.
func (s *QuestionService) ToggleLike(ctx context.Context, caller *models.Identity, id string) (*models.Question, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	question, err := s.repo.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Store(err, "failed to toggle like")
	}
	s.events.RecordEvent(EventLikeToggled, 1)
	return question, nil
}

// Delete removes a question and all of its answers. The author or an admin
// may delete; stored files are removed afterwards on a best-effort basis.
func (s *QuestionService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	question, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(caller, question.UserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own questions")
	}

	files, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Store(err, "failed to delete question")
	}

	if question.Attachment != nil {
		files = append(files, question.Attachment.Path)
	}
	s.attachments.Remove(ctx, files...)
	s.events.RecordEvent(EventQuestionDeleted, 1)
	s.logger.Info("question deleted", zap.String("question_id", id), zap.String("by", caller.ID))
	return nil
}

// ReconcileAnswerCounts recomputes drifted answer counters.
func (s *QuestionService) ReconcileAnswerCounts(ctx context.Context) (*dto.ReconcileResponse, error) {
	corrections, err := s.repo.ReconcileAnswerCounts(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to reconcile answer counts")
	}
	for _, c := range corrections {
		s.logger.Info("answer count corrected", zap.String("question_id", c.QuestionID), zap.Int("stored", c.Stored), zap.Int("actual", c.Actual))
	}
	s.events.RecordEvent(EventCounterCorrection, len(corrections))
	return &dto.ReconcileResponse{Fixed: len(corrections), Corrections: corrections}, nil
}
