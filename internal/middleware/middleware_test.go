package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/internal/service"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/logger"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token == "expired" {
		return nil, appErrors.Clone(appErrors.ErrTokenExpired, "")
	}
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var tokens = stubValidator{
	"student": {UserID: "u-1", Username: "ana", Role: models.RoleStudent},
	"admin":   {UserID: "u-2", Username: "root", Role: models.RoleAdmin},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		value, _ := c.Get(ContextUserKey)
		claims, _ := value.(*models.JWTClaims)
		body := gin.H{"caller": c.GetString(logger.CallerKey)}
		if claims != nil {
			body["username"] = claims.Username
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestJWT(t *testing.T) {
	r := newRouter(JWT(tokens))

	rec := do(r, "Bearer student")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"caller":"u-1"`)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)

	rec = do(r, "bearer student")
	assert.Equal(t, http.StatusOK, rec.Code)

	cases := map[string]string{
		"":               "authentication required",
		"Token student":  "invalid authorization header",
		"Bearer ":        "invalid authorization header",
		"Bearer nope":    "invalid token",
		"Bearer expired": "token expired",
	}
	for header, want := range cases {
		rec := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, want, message(t, rec), header)
	}
}

func TestAuthJWTUsesAuthResultBody(t *testing.T) {
	r := newRouter(AuthJWT(tokens))

	rec := do(r, "Bearer student")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)

	cases := map[string]string{
		"":               `{"success":false,"message":"authentication required"}`,
		"Token student":  `{"success":false,"message":"invalid authorization header"}`,
		"Bearer nope":    `{"success":false,"message":"invalid token"}`,
		"Bearer expired": `{"success":false,"message":"token expired"}`,
	}
	for header, want := range cases {
		rec := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, want, rec.Body.String(), header)
	}
}

func TestOptionalJWT(t *testing.T) {
	r := newRouter(OptionalJWT(tokens))

	rec := do(r, "Bearer student")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)

	for _, header := range []string{"", "Bearer nope", "Bearer expired", "garbage"} {
		rec := do(r, header)
		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.Equal(t, `{"caller":""}`, rec.Body.String(), header)
	}
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(JWT(tokens), RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusOK, do(r, "Bearer admin").Code)

	rec := do(r, "Bearer student")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", message(t, rec))

	anonymous := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(anonymous, "").Code)
}

func TestDeadline(t *testing.T) {
	r := gin.New()
	r.GET("/", Deadline(50*time.Millisecond, time.Minute), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, do(r, "").Code)

	unbounded := gin.New()
	unbounded.GET("/", Deadline(0, 0), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, do(unbounded, "").Code)
}

func TestDeadlineGivesUploadsTheirOwnBudget(t *testing.T) {
	r := gin.New()
	r.POST("/", Deadline(50*time.Millisecond, time.Minute), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	fallback := gin.New()
	fallback.POST("/", Deadline(50*time.Millisecond, 0), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		c.Status(http.StatusNoContent)
	})
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	fallback.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/api/questions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/questions/q-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `path="/api/questions/:id",status="200"`))
	assert.True(t, strings.Contains(body, `path="unmatched",status="404"`))
}
