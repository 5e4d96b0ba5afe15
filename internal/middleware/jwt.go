package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/logger"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator resolves a bearer token into claims.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid session token.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return requireToken(tokens, response.Error)
}

// AuthJWT is JWT for the auth flavoured endpoints: failures use the
// {success:false,message} body those clients expect.
func AuthJWT(tokens TokenValidator) gin.HandlerFunc {
	return requireToken(tokens, response.AuthError)
}

func requireToken(tokens TokenValidator, fail func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		token, ok := bearer(header)
		if !ok {
			fail(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when present but does not block. Any failure
// leaves the request anonymous.
func OptionalJWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c.GetHeader("Authorization")); ok {
			if claims, err := tokens.ValidateToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(ContextUserKey, claims)
	c.Set(logger.CallerKey, claims.UserID)
}
