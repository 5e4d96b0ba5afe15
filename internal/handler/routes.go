package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/middleware"
	"github.com/TinArambasic/ScholarSync/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Questions *QuestionHandler
	Answers   *AnswerHandler
	Courses   *CourseHandler
	Users     *UserHandler
	Search    *SearchHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts the forum API under prefix plus the health endpoints.
func RegisterRoutes(r gin.IRouter, prefix string, h Handlers, tokens middleware.TokenValidator) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)

	auth := middleware.JWT(tokens)
	optional := middleware.OptionalJWT(tokens)

	api := r.Group(prefix)
	api.POST("/login", h.Auth.Login)
	api.POST("/register", h.Auth.Register)

	questions := api.Group("/questions")
	questions.GET("", optional, h.Questions.List)
	questions.GET("/:id", h.Questions.Get)
	questions.POST("", auth, h.Questions.Create)
	questions.PATCH("/:id", auth, h.Questions.UpdateCompletion)
	questions.DELETE("/:id", auth, h.Questions.Delete)
	questions.POST("/:id/like", auth, h.Questions.ToggleLike)

	answers := api.Group("/answers")
	answers.GET("", h.Answers.List)
	answers.GET("/:id", h.Answers.Get)
	answers.POST("", auth, h.Answers.Create)
	answers.PATCH("/:id", auth, h.Answers.Update)
	answers.DELETE("/:id", auth, h.Answers.Delete)
	answers.POST("/:id/like", auth, h.Answers.ToggleLike)

	api.GET("/users", h.Users.List)
	api.GET("/users/:id", h.Users.Get)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.GET("/:id", h.Courses.Get)
	courses.POST("/:id/join", auth, h.Courses.Join)
	courses.POST("/:id/unjoin", auth, h.Courses.Unjoin)

	api.GET("/search", h.Search.Search)

	profile := api.Group("/profile", middleware.AuthJWT(tokens))
	profile.GET("", h.Users.Profile)
	profile.PATCH("", h.Users.UpdateProfile)
	profile.DELETE("", h.Users.DeleteAccount)

	admin := api.Group("/admin", auth, middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/answer-counts/reconcile", h.Questions.Reconcile)
}
