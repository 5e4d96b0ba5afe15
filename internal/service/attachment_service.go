package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/storage"
)

// AttachmentService checks uploads against their policy and hands accepted
// files to the configured storage backend.
type AttachmentService struct {
	store       storage.Service
	attachments storage.Policy
	avatars     storage.Policy
	logger      *zap.Logger
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(store storage.Service, attachments, avatars storage.Policy, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{store: store, attachments: attachments, avatars: avatars, logger: logger}
}

// StoreAttachment stores a question or answer attachment.
func (s *AttachmentService) StoreAttachment(ctx context.Context, upload *dto.Upload) (*models.Attachment, error) {
	return s.save(ctx, upload, s.attachments)
}

// StoreAvatar stores a profile picture and returns its reference.
func (s *AttachmentService) StoreAvatar(ctx context.Context, upload *dto.Upload) (string, error) {
	att, err := s.save(ctx, upload, s.avatars)
	if err != nil {
		return "", err
	}
	return att.Path, nil
}

// Owns reports whether ref names a file kept by the storage backend.
func (s *AttachmentService) Owns(ref string) bool {
	return s.store.Owns(ref)
}

// Remove deletes stored files. Failures are logged and otherwise ignored.
func (s *AttachmentService) Remove(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.store.Delete(ctx, ref); err != nil {
			s.logger.Warn("failed to remove stored file", zap.String("ref", ref), zap.Error(err))
		}
	}
}

func (s *AttachmentService) save(ctx context.Context, upload *dto.Upload, policy storage.Policy) (*models.Attachment, error) {
	if upload == nil || upload.Content == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	contentType, err := policy.Check(upload.Filename, upload.ContentType, upload.Size, upload.Content)
	if err != nil {
		return nil, uploadError(err, policy)
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}

	name := storage.UniqueName(upload.Filename)
	ref, err := s.store.Save(ctx, name, upload.Content, upload.Size, contentType)
	if err != nil {
		return nil, appErrors.Store(err, "failed to store file")
	}

	return &models.Attachment{
		Filename:     name,
		OriginalName: upload.Filename,
		Path:         ref,
		Size:         upload.Size,
		Mimetype:     contentType,
	}, nil
}

func uploadError(err error, policy storage.Policy) *appErrors.Error {
	var message string
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		message = fmt.Sprintf("file is too large, the limit is %d MB", policy.MaxBytes/(1024*1024))
	case errors.Is(err, storage.ErrFileType):
		message = "only " + strings.Join(policy.Extensions(), ", ") + " files are allowed"
	case errors.Is(err, storage.ErrFileTypeMismatch):
		message = "file content does not match its type"
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect upload")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
