package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/internal/repository"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/validation"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	DeleteCascade(ctx context.Context, id string) ([]string, error)
}

type avatarStore interface {
	StoreAvatar(ctx context.Context, upload *dto.Upload) (string, error)
	Owns(ref string) bool
	Remove(ctx context.Context, refs ...string)
}

type tokenIssuer interface {
	IssueToken(identity models.Identity) (string, error)
}

// UserService manages user listings and self-service profile operations.
type UserService struct {
	repo      userRepository
	avatars   avatarStore
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo userRepository, avatars avatarStore, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &UserService{repo: repo, avatars: avatars, tokens: tokens, validator: validate, logger: logger}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list users")
	}
	return users, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Store(err, "failed to load user")
	}
	return user, nil
}

// Profile returns the caller's current record.
func (s *UserService) Profile(ctx context.Context, caller *models.Identity) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.Get(ctx, caller.ID)
}

// UpdateProfile applies any subset of profile fields and returns the updated
// user with a fresh session token.
func (s *UserService) UpdateProfile(ctx context.Context, caller *models.Identity, req dto.UpdateProfileRequest, picture *dto.Upload) (*dto.AuthResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	req.Username = trimmedOrNil(req.Username)
	req.Email = trimmedOrNil(req.Email)
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	if req.Bio != nil {
		bio := validation.Sanitize(*req.Bio)
		req.Bio = &bio
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	current, err := s.Get(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	upd := models.ProfileUpdate{Bio: req.Bio}
	if req.Username != nil && *req.Username != current.Username {
		if err := s.ensureFree(ctx, current.ID, s.repo.FindByUsername, *req.Username, "username is already taken"); err != nil {
			return nil, err
		}
		upd.Username = req.Username
	}
	if req.Email != nil && *req.Email != current.Email {
		if err := s.ensureFree(ctx, current.ID, s.repo.FindByEmail, *req.Email, "email is already registered"); err != nil {
			return nil, err
		}
		upd.Email = req.Email
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		upd.PasswordHash = &hash
	}

	var stored string
	switch {
	case picture != nil:
		if s.avatars == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "file uploads are not accepted")
		}
		stored, err = s.avatars.StoreAvatar(ctx, picture)
		if err != nil {
			return nil, err
		}
		upd.ProfilePicture = &stored
	case req.ProfilePicture != nil:
		ref := strings.TrimSpace(*req.ProfilePicture)
		// Stored files only enter a profile through an upload.
		if ref != current.ProfilePicture && s.avatars != nil && s.avatars.Owns(ref) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "profilePicture must be an uploaded image or an external URL")
		}
		upd.ProfilePicture = &ref
	}

	user := current
	if !upd.Empty() {
		user, err = s.repo.Update(ctx, current.ID, upd)
		if err != nil {
			s.removeFiles(ctx, stored)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
			case errors.Is(err, repository.ErrDuplicate):
				return nil, appErrors.Clone(appErrors.ErrConflict, "username or email is already registered")
			}
			return nil, appErrors.Store(err, "failed to update profile")
		}
	}

	if upd.ProfilePicture != nil && current.ProfilePicture != "" && current.ProfilePicture != *upd.ProfilePicture {
		s.removeFiles(ctx, current.ProfilePicture)
	}

	token, err := s.tokens.IssueToken(user.Identity())
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Success: true, User: user, Token: token}, nil
}

// DeleteAccount removes the caller with all of their questions and answers.
func (s *UserService) DeleteAccount(ctx context.Context, caller *models.Identity) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	user, err := s.Get(ctx, caller.ID)
	if err != nil {
		return err
	}

	files, err := s.repo.DeleteCascade(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Store(err, "failed to delete account")
	}

	s.removeFiles(ctx, append(files, user.ProfilePicture)...)
	s.logger.Info("account deleted", zap.String("user_id", caller.ID), zap.Int("files", len(files)))
	return nil
}

func (s *UserService) ensureFree(ctx context.Context, selfID string, find func(context.Context, string) (*models.User, error), value, message string) error {
	existing, err := find(ctx, value)
	if err == nil {
		if existing.ID != selfID {
			return appErrors.Clone(appErrors.ErrConflict, message)
		}
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return appErrors.Store(err, "failed to check uniqueness")
}

// removeFiles deletes stored files best-effort. Backends ignore references
// they do not own, such as external picture URLs.
func (s *UserService) removeFiles(ctx context.Context, refs ...string) {
	if s.avatars == nil {
		return
	}
	s.avatars.Remove(ctx, refs...)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
