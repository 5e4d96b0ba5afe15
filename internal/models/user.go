package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the available forum roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents a forum account stored in the users table.
type User struct {
	ID             string    `db:"id" json:"_id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           Role      `db:"role" json:"role"`
	Bio            string    `db:"bio" json:"bio"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture,omitempty"`
	JoinedCourses  IDSet     `db:"joined_courses" json:"joinedCourses"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity returns the session identity of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// UserSummary is the public projection used in search results.
type UserSummary struct {
	ID             string `db:"id" json:"_id"`
	Username       string `db:"username" json:"username"`
	ProfilePicture string `db:"profile_picture" json:"profilePicture,omitempty"`
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means
// unchanged.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	Bio            *string
	PasswordHash   *string
	ProfilePicture *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Bio == nil && p.PasswordHash == nil && p.ProfilePicture == nil
}

// Identity is the caller resolved from a session token.
type Identity struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// JWTClaims represents the JWT payload for session tokens.
type JWTClaims struct {
	UserID   string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims into a caller identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{ID: c.UserID, Username: c.Username, Email: c.Email, Role: c.Role}
}
