package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
)

// Message is the error body for regular routes.
type Message struct {
	Message string `json:"message"`
}

// AuthResult is the body shape shared by login, register and profile routes.
type AuthResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
}

// JSON writes the document as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Success acknowledges an operation without a document, e.g. deletions.
func Success(c *gin.Context, message string) {
	JSON(c, http.StatusOK, AuthResult{Success: true, Message: message})
}

// Error translates err into {message} with the matching status code.
func Error(c *gin.Context, err error) {
	appErr := record(c, err)
	JSON(c, appErr.Status, Message{Message: appErr.Message})
}

// AuthError translates err into {success:false, message}.
func AuthError(c *gin.Context, err error) {
	appErr := record(c, err)
	JSON(c, appErr.Status, AuthResult{Success: false, Message: appErr.Message})
}

// record attaches server side failures to the context so the request logger
// keeps the cause the client never sees.
func record(c *gin.Context, err error) *appErrors.Error {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	return appErr
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
