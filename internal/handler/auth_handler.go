package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} response.AuthResult
// @Failure 401 {object} response.AuthResult
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.AuthError(c, invalidPayload(err, "username and password are required"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.AuthError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Register godoc
// @Summary Register account
// @Description Create a student account and sign in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} response.AuthResult
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.AuthError(c, invalidPayload(err, "all fields are required"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.AuthError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
