package service

import (
	"context"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/validation"
)

// Domain events counted by the metrics service.
const (
	EventQuestionCreated   = "question_created"
	EventQuestionDeleted   = "question_deleted"
	EventAnswerCreated     = "answer_created"
	EventAnswerDeleted     = "answer_deleted"
	EventLikeToggled       = "like_toggled"
	EventCourseJoined      = "course_joined"
	EventUserRegistered    = "user_registered"
	EventCounterCorrection = "answer_count_corrected"
)

type eventRecorder interface {
	RecordEvent(event string, delta int)
}

type noopRecorder struct{}

func (noopRecorder) RecordEvent(string, int) {}

type attachmentStore interface {
	StoreAttachment(ctx context.Context, upload *dto.Upload) (*models.Attachment, error)
	Remove(ctx context.Context, refs ...string)
}

func requireCaller(caller *models.Identity) error {
	if caller == nil || caller.ID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return nil
}

// canModify reports whether caller may edit or delete content owned by ownerID.
func canModify(caller *models.Identity, ownerID string) bool {
	return caller.ID == ownerID || caller.IsAdmin()
}

func validationError(err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validation.Message(err))
}

type noAttachments struct{}

func (noAttachments) StoreAttachment(context.Context, *dto.Upload) (*models.Attachment, error) {
	return nil, appErrors.Clone(appErrors.ErrValidation, "file uploads are not accepted")
}

func (noAttachments) Remove(context.Context, ...string) {}
