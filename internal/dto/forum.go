package dto

import (
	"io"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

// CreateQuestionRequest is bound from JSON or multipart form fields.
type CreateQuestionRequest struct {
	Title    string `json:"title" form:"title" validate:"required,min=5"`
	Content  string `json:"content" form:"content" validate:"required,min=10"`
	CourseID string `json:"courseId" form:"courseId" validate:"required"`
}

// UpdateQuestionRequest toggles the completion flag.
type UpdateQuestionRequest struct {
	IsCompleted *bool `json:"isCompleted" validate:"required"`
}

// ListQuestionsQuery captures GET /questions query parameters.
type ListQuestionsQuery struct {
	ForYou   bool   `form:"forYou"`
	CourseID string `form:"courseId"`
	UserID   string `form:"userId"`
}

// CreateAnswerRequest is bound from JSON or multipart form fields.
type CreateAnswerRequest struct {
	Content    string `json:"content" form:"content" validate:"required,min=10,max=5000"`
	QuestionID string `json:"questionId" form:"questionId" validate:"required"`
}

// UpdateAnswerRequest edits an answer's content.
type UpdateAnswerRequest struct {
	Content string `json:"content" form:"content" validate:"required,min=10,max=5000"`
}

// ListCoursesQuery captures GET /courses query parameters.
type ListCoursesQuery struct {
	Program string `form:"program"`
	Year    int    `form:"year" validate:"omitempty,min=1,max=5"`
	Type    string `form:"type" validate:"omitempty,oneof=obavezni izborni"`
}

// ReconcileResponse reports the counters repaired by reconciliation.
type ReconcileResponse struct {
	Fixed       int                            `json:"fixed"`
	Corrections []models.AnswerCountCorrection `json:"corrections"`
}

// Upload is a file received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}
