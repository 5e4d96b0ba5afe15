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

type answerRepository interface {
	CreateWithCount(ctx context.Context, a *models.Answer) error
	FindByID(ctx context.Context, id string) (*models.Answer, error)
	List(ctx context.Context, questionID string) ([]models.Answer, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Answer, error)
	DeleteWithCount(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (*models.Answer, error)
}

type questionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
}

// AnswerService implements answers and keeps their parent's counter in step.
type AnswerService struct {
	repo        answerRepository
	questions   questionFinder
	attachments attachmentStore
	validator   *validator.Validate
	logger      *zap.Logger
	events      eventRecorder
}

// NewAnswerService constructs an AnswerService.
func NewAnswerService(repo answerRepository, questions questionFinder, attachments attachmentStore, validate *validator.Validate, logger *zap.Logger) *AnswerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if attachments == nil {
		attachments = noAttachments{}
	}
	return &AnswerService{repo: repo, questions: questions, attachments: attachments, validator: validate, logger: logger, events: noopRecorder{}}
}

// WithEvents attaches a recorder for domain counters.
func (s *AnswerService) WithEvents(events eventRecorder) *AnswerService {
	if events != nil {
		s.events = events
	}
	return s
}

// Create stores an answer and increments the question's answersCount in the
// same transaction.
func (s *AnswerService) Create(ctx context.Context, caller *models.Identity, req dto.CreateAnswerRequest, upload *dto.Upload) (*models.Answer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	req.Content = validation.Sanitize(req.Content)
	req.QuestionID = validation.Sanitize(req.QuestionID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.questions.FindByID(ctx, req.QuestionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Store(err, "failed to load question")
	}

	answer := &models.Answer{
		Content:    req.Content,
		QuestionID: req.QuestionID,
		UserID:     caller.ID,
		Author:     models.Author{Username: caller.Username, Role: caller.Role},
		Likes:      models.IDSet{},
	}

	if upload != nil {
		att, err := s.attachments.StoreAttachment(ctx, upload)
		if err != nil {
			return nil, err
		}
		answer.Attachment = att.Path
	}

	if err := s.repo.CreateWithCount(ctx, answer); err != nil {
		s.attachments.Remove(ctx, answer.Attachment)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Store(err, "failed to create answer")
	}

	s.events.RecordEvent(EventAnswerCreated, 1)
	return answer, nil
}

// Get returns an answer by id.
func (s *AnswerService) Get(ctx context.Context, id string) (*models.Answer, error) {
	answer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "answer not found")
		}
		return nil, appErrors.Store(err, "failed to load answer")
	}
	return answer, nil
}

// List returns answers oldest first, optionally for one question.
func (s *AnswerService) List(ctx context.Context, questionID string) ([]models.Answer, error) {
	answers, err := s.repo.List(ctx, questionID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list answers")
	}
	return answers, nil
}

// Update replaces an answer's content. The author or an admin may edit.
func (s *AnswerService) Update(ctx context.Context, caller *models.Identity, id string, req dto.UpdateAnswerRequest) (*models.Answer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	req.Content = validation.Sanitize(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	answer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(caller, answer.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only edit your own answers")
	}

	updated, err := s.repo.UpdateContent(ctx, id, req.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "answer not found")
		}
		return nil, appErrors.Store(err, "failed to update answer")
	}
	return updated, nil
}

// Delete removes an answer and decrements its question's counter.
func (s *AnswerService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	answer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(caller, answer.UserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own answers")
	}

	if err := s.repo.DeleteWithCount(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "answer not found")
		}
		return appErrors.Store(err, "failed to delete answer")
	}

	s.attachments.Remove(ctx, answer.Attachment)
	s.events.RecordEvent(EventAnswerDeleted, 1)
	return nil
}

// ToggleLike adds the caller to the likes set, or removes them if present.
func (s *AnswerService) ToggleLike(ctx context.Context, caller *models.Identity, id string) (*models.Answer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	answer, err := s.repo.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "answer not found")
		}
		return nil, appErrors.Store(err, "failed to toggle like")
	}
	s.events.RecordEvent(EventLikeToggled, 1)
	return answer, nil
}
