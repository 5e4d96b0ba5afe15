package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type courseService interface {
	List(ctx context.Context, query dto.ListCoursesQuery) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Join(ctx context.Context, caller *models.Identity, courseID string) (*models.User, error)
	Unjoin(ctx context.Context, caller *models.Identity, courseID string) (*models.User, error)
}

// CourseHandler exposes the course catalogue and membership endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler creates a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Description With a program key the year filter applies to the course's year in that program.
// @Tags Courses
// @Produce json
// @Param program query string false "Program key, e.g. preddiplomski-matematika"
// @Param year query int false "Study year 1-5"
// @Param type query string false "obavezni or izborni"
// @Success 200 {array} models.Course
// @Failure 400 {object} response.Message
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.ListCoursesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid query parameters"))
		return
	}

	courses, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} response.Message
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Join godoc
// @Summary Join course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.User
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /courses/{id}/join [post]
func (h *CourseHandler) Join(c *gin.Context) {
	user, err := h.service.Join(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Unjoin godoc
// @Summary Leave course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /courses/{id}/unjoin [post]
func (h *CourseHandler) Unjoin(c *gin.Context) {
	user, err := h.service.Unjoin(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
