package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Author is the snapshot of the creator copied onto questions and answers.
// It is not refreshed when the user is renamed.
type Author struct {
	Username string `db:"username" json:"username"`
	Role     Role   `db:"role" json:"role"`
}

// Attachment describes a file uploaded with a question.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
}

// Scan implements sql.Scanner for the JSONB attachment column.
func (a *Attachment) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan attachment: unsupported type %T", src)
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return fmt.Errorf("scan attachment: %w", err)
	}
	return nil
}

// Value implements driver.Valuer. A nil attachment is stored as NULL.
func (a *Attachment) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(*a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Question is a post asked within a course.
type Question struct {
	ID           string      `db:"id" json:"_id"`
	Title        string      `db:"title" json:"title"`
	Content      string      `db:"content" json:"content"`
	CourseID     string      `db:"course_id" json:"courseId"`
	UserID       string      `db:"user_id" json:"userId"`
	Author       Author      `db:"author" json:"author"`
	AnswersCount int         `db:"answers_count" json:"answersCount"`
	IsCompleted  bool        `db:"is_completed" json:"isCompleted"`
	Likes        IDSet       `db:"likes" json:"likes"`
	Attachment   *Attachment `db:"attachment" json:"attachment,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

// OwnedBy reports whether the identity created the question.
func (q *Question) OwnedBy(id Identity) bool {
	return q.UserID == id.ID
}

// QuestionFilter narrows question listings. CourseIDs, when non-nil, restricts
// results to that set even when it is empty.
type QuestionFilter struct {
	CourseIDs []string
	CourseID  string
	UserID    string
}

// SearchQuestion is a question search hit with its course title resolved.
type SearchQuestion struct {
	Question
	CourseName string `json:"courseName,omitempty"`
}

// AnswerCountCorrection records one counter repaired by reconciliation.
type AnswerCountCorrection struct {
	QuestionID string `db:"question_id" json:"questionId"`
	Stored     int    `db:"stored" json:"stored"`
	Actual     int    `db:"actual" json:"actual"`
}
