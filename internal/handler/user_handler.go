package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type userService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Profile(ctx context.Context, caller *models.Identity) (*models.User, error)
	UpdateProfile(ctx context.Context, caller *models.Identity, req dto.UpdateProfileRequest, picture *dto.Upload) (*dto.AuthResponse, error)
	DeleteAccount(ctx context.Context, caller *models.Identity) error
}

// UserHandler handles user listings and the caller's own profile.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.Message
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Profile godoc
// @Summary Current user profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.AuthResult
// @Failure 401 {object} response.AuthResult
// @Security BearerAuth
// @Router /profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.service.Profile(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.AuthError(c, err)
		return
	}
	response.OK(c, response.AuthResult{Success: true, User: user})
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Description Any subset of username, email, bio, password and profilePicture. Returns a fresh token.
// @Tags Profile
// @Accept json,mpfd
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Profile fields"
// @Param profilePicture formData file false "Profile picture"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} response.AuthResult
// @Security BearerAuth
// @Router /profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.AuthError(c, invalidPayload(err, "invalid profile payload"))
		return
	}
	picture, closeFile, err := formFile(c, "profilePicture")
	if err != nil {
		response.AuthError(c, err)
		return
	}
	defer closeFile()

	res, err := h.service.UpdateProfile(c.Request.Context(), callerFromContext(c), req, picture)
	if err != nil {
		response.AuthError(c, err)
		return
	}
	response.OK(c, res)
}

// DeleteAccount godoc
// @Summary Delete current account
// @Description Removes the account with all of its questions and answers.
// @Tags Profile
// @Produce json
// @Success 200 {object} response.AuthResult
// @Failure 401 {object} response.AuthResult
// @Security BearerAuth
// @Router /profile [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), callerFromContext(c)); err != nil {
		response.AuthError(c, err)
		return
	}
	response.Success(c, "account deleted")
}
