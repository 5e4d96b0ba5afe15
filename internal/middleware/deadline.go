package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline bounds every request context so store calls cannot outlive store.
// Multipart requests get the upload budget instead, since it must cover
// reading the body and writing the file to storage as well. A non-positive
// upload budget falls back to store; a non-positive store disables the bound.
func Deadline(store, upload time.Duration) gin.HandlerFunc {
	if upload <= 0 {
		upload = store
	}
	return func(c *gin.Context) {
		d := store
		if isMultipart(c) {
			d = upload
		}
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(strings.ToLower(c.ContentType()), "multipart/form-data")
}
