package models

import "time"

type Answer struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	AuthorID   int  `gorm:"not null;index" json:"author_id"`
	Author     User `gorm:"foreignKey:AuthorID" json:"author"`
	QuestionID int  `gorm:"not null;index" json:"question_id"`

	VoteCount int `gorm:"default:0;index" json:"vote_count"`

	IsDeleted   bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedByID *int       `json:"deleted_by_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
