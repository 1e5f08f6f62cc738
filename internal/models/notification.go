package models

import "time"

const (
	NotificationAnswer  = "answer"
	NotificationComment = "comment"
	NotificationMention = "mention"
	NotificationVote    = "vote"
	NotificationAccept  = "accept"
)

type Notification struct {
	ID          int   `gorm:"primaryKey" json:"id"`
	RecipientID int   `gorm:"not null;index:idx_notifications_recipient_read" json:"recipient_id"`
	SenderID    *int  `json:"sender_id,omitempty"`
	Sender      *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Type    string `gorm:"size:10;not null" json:"type"`
	Message string `gorm:"size:500;not null" json:"message"`

	QuestionID *int      `json:"question_id,omitempty"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AnswerID   *int      `json:"answer_id,omitempty"`

	IsRead bool       `gorm:"default:false;index:idx_notifications_recipient_read" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
