package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type questionService interface {
	Create(ctx context.Context, caller *models.Identity, req dto.CreateQuestionRequest, upload *dto.Upload) (*models.Question, error)
	Get(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	UpdateCompletion(ctx context.Context, caller *models.Identity, id string, req dto.UpdateQuestionRequest) (*models.Question, error)
	ToggleLike(ctx context.Context, caller *models.Identity, id string) (*models.Question, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
	ReconcileAnswerCounts(ctx context.Context) (*dto.ReconcileResponse, error)
}

type personalizedFeed interface {
	PersonalizedQuestions(ctx context.Context, caller *models.Identity) ([]models.Question, error)
}

// QuestionHandler exposes question endpoints.
type QuestionHandler struct {
	service questionService
	feed    personalizedFeed
}

// NewQuestionHandler creates a question handler.
func NewQuestionHandler(svc questionService, feed personalizedFeed) *QuestionHandler {
	return &QuestionHandler{service: svc, feed: feed}
}

// List godoc
// @Summary List questions
// @Description Newest first. forYou=true limits an authenticated caller to joined courses.
// @Tags Questions
// @Produce json
// @Param forYou query bool false "Only questions of joined courses"
// @Param courseId query string false "Course filter"
// @Param userId query string false "Author filter"
// @Success 200 {array} models.Question
// @Failure 400 {object} response.Message
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	var query dto.ListQuestionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid query parameters"))
		return
	}

	if caller := callerFromContext(c); query.ForYou && caller != nil {
		questions, err := h.feed.PersonalizedQuestions(c.Request.Context(), caller)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, questions)
		return
	}

	questions, err := h.service.List(c.Request.Context(), models.QuestionFilter{CourseID: query.CourseID, UserID: query.UserID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, questions)
}

// Get godoc
// @Summary Get question
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} response.Message
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	question, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, question)
}

// Create godoc
// @Summary Ask a question
// @Description Accepts JSON or multipart form data with an optional attachment file.
// @Tags Questions
// @Accept json,mpfd
// @Produce json
// @Param payload body dto.CreateQuestionRequest true "Question payload"
// @Param attachment formData file false "Attachment"
// @Success 201 {object} models.Question
// @Failure 400 {object} response.Message
// @Failure 401 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid question payload"))
		return
	}
	upload, closeFile, err := formFile(c, "attachment")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()

	question, err := h.service.Create(c.Request.Context(), callerFromContext(c), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// UpdateCompletion godoc
// @Summary Mark question completed
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body dto.UpdateQuestionRequest true "Completion flag"
// @Success 200 {object} models.Question
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /questions/{id} [patch]
func (h *QuestionHandler) UpdateCompletion(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "isCompleted must be a boolean"))
		return
	}

	question, err := h.service.UpdateCompletion(c.Request.Context(), callerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, question)
}

// ToggleLike godoc
// @Summary Like or unlike a question
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /questions/{id}/like [post]
func (h *QuestionHandler) ToggleLike(c *gin.Context) {
	question, err := h.service.ToggleLike(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, question)
}

// Delete godoc
// @Summary Delete question
// @Description Deletes the question with all of its answers. Author or admin only.
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.AuthResult
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "question deleted")
}

// Reconcile godoc
// @Summary Repair answer counters
// @Description Recomputes answersCount for every question whose stored value drifted.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 403 {object} response.Message
// @Security BearerAuth
// @Router /admin/answer-counts/reconcile [post]
func (h *QuestionHandler) Reconcile(c *gin.Context) {
	res, err := h.service.ReconcileAnswerCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
