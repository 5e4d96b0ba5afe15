package dto

import "github.com/TinArambasic/ScholarSync/internal/models"

// RegisterRequest creates a student account.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,username"`
	Email    string `json:"email" form:"email" validate:"required,forumemail"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthResponse is returned by login, register and profile updates.
type AuthResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

// UpdateProfileRequest edits any subset of the caller's profile. Empty
// username, email or password values leave the field unchanged.
type UpdateProfileRequest struct {
	Username       *string `json:"username" form:"username" validate:"omitempty,username"`
	Email          *string `json:"email" form:"email" validate:"omitempty,forumemail"`
	Bio            *string `json:"bio" form:"bio" validate:"omitempty,max=500"`
	Password       *string `json:"password" form:"password" validate:"omitempty,min=6"`
	ProfilePicture *string `json:"profilePicture" form:"profilePicture"`
}
