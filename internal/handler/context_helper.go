package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/middleware"
	"github.com/TinArambasic/ScholarSync/internal/models"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// callerFromContext returns the authenticated identity or nil for anonymous
// requests.
func callerFromContext(c *gin.Context) *models.Identity {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	identity := claims.Identity()
	return &identity
}

// formFile opens an optional multipart file. JSON requests and multipart
// requests without the field yield a nil upload.
func formFile(c *gin.Context, field string) (*dto.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read uploaded file")
	}
	upload := &dto.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return upload, func() { _ = file.Close() }, nil
}

func invalidPayload(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
