package models

import "time"

// Answer is a reply to a question.
type Answer struct {
	ID            string    `db:"id" json:"_id"`
	Content       string    `db:"content" json:"content"`
	QuestionID    string    `db:"question_id" json:"questionId"`
	UserID        string    `db:"user_id" json:"userId"`
	Author        Author    `db:"author" json:"author"`
	IsHighlighted bool      `db:"is_highlighted" json:"isHighlighted"`
	Likes         IDSet     `db:"likes" json:"likes"`
	Attachment    string    `db:"attachment" json:"attachment,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// OwnedBy reports whether the identity wrote the answer.
func (a *Answer) OwnedBy(id Identity) bool {
	return a.UserID == id.ID
}

// SearchResult groups the hits of a cross-entity search.
type SearchResult struct {
	Questions []SearchQuestion `json:"questions"`
	Users     []UserSummary    `json:"users"`
	Courses   []Course         `json:"courses"`
}
