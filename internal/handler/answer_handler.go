package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type answerService interface {
	Create(ctx context.Context, caller *models.Identity, req dto.CreateAnswerRequest, upload *dto.Upload) (*models.Answer, error)
	Get(ctx context.Context, id string) (*models.Answer, error)
	List(ctx context.Context, questionID string) ([]models.Answer, error)
	Update(ctx context.Context, caller *models.Identity, id string, req dto.UpdateAnswerRequest) (*models.Answer, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
	ToggleLike(ctx context.Context, caller *models.Identity, id string) (*models.Answer, error)
}

// AnswerHandler exposes answer endpoints.
type AnswerHandler struct {
	service answerService
}

// NewAnswerHandler creates an answer handler.
func NewAnswerHandler(svc answerService) *AnswerHandler {
	return &AnswerHandler{service: svc}
}

// List godoc
// @Summary List answers
// @Tags Answers
// @Produce json
// @Param questionId query string false "Question filter"
// @Success 200 {array} models.Answer
// @Router /answers [get]
func (h *AnswerHandler) List(c *gin.Context) {
	answers, err := h.service.List(c.Request.Context(), c.Query("questionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, answers)
}

// Get godoc
// @Summary Get answer
// @Tags Answers
// @Produce json
// @Param id path string true "Answer ID"
// @Success 200 {object} models.Answer
// @Failure 404 {object} response.Message
// @Router /answers/{id} [get]
func (h *AnswerHandler) Get(c *gin.Context) {
	answer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, answer)
}

// Create godoc
// @Summary Answer a question
// @Tags Answers
// @Accept json,mpfd
// @Produce json
// @Param payload body dto.CreateAnswerRequest true "Answer payload"
// @Param attachment formData file false "Attachment"
// @Success 201 {object} models.Answer
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /answers [post]
func (h *AnswerHandler) Create(c *gin.Context) {
	var req dto.CreateAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid answer payload"))
		return
	}
	upload, closeFile, err := formFile(c, "attachment")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()

	answer, err := h.service.Create(c.Request.Context(), callerFromContext(c), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, answer)
}

// Update godoc
// @Summary Edit answer
// @Tags Answers
// @Accept json
// @Produce json
// @Param id path string true "Answer ID"
// @Param payload body dto.UpdateAnswerRequest true "New content"
// @Success 200 {object} models.Answer
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Security BearerAuth
// @Router /answers/{id} [patch]
func (h *AnswerHandler) Update(c *gin.Context) {
	var req dto.UpdateAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid answer payload"))
		return
	}

	answer, err := h.service.Update(c.Request.Context(), callerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, answer)
}

// Delete godoc
// @Summary Delete answer
// @Tags Answers
// @Produce json
// @Param id path string true "Answer ID"
// @Success 200 {object} response.AuthResult
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /answers/{id} [delete]
func (h *AnswerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), callerFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "answer deleted")
}

// ToggleLike godoc
// @Summary Like or unlike an answer
// @Tags Answers
// @Produce json
// @Param id path string true "Answer ID"
// @Success 200 {object} models.Answer
// @Failure 404 {object} response.Message
// @Security BearerAuth
// @Router /answers/{id}/like [post]
func (h *AnswerHandler) ToggleLike(c *gin.Context) {
	answer, err := h.service.ToggleLike(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, answer)
}
