package models

import "time"

const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote is one row of the vote ledger: exactly one of QuestionID/AnswerID is
// set, and the unique indexes guarantee at most one vote per voter per entity.
type Vote struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	UserID     int    `gorm:"not null;uniqueIndex:idx_votes_user_question;uniqueIndex:idx_votes_user_answer" json:"user_id"`
	QuestionID *int   `gorm:"uniqueIndex:idx_votes_user_question" json:"question_id,omitempty"`
	AnswerID   *int   `gorm:"uniqueIndex:idx_votes_user_answer" json:"answer_id,omitempty"`
	Type       string `gorm:"size:4;not null" json:"type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
