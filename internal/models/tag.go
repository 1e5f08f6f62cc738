package models

import "time"

type Tag struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:30;not null" json:"name"`
	Description string `gorm:"size:200" json:"description"`
	Color       string `gorm:"size:7;default:#3B82F6" json:"color"`

	// Number of live (non-deleted) questions carrying this tag.
	QuestionCount int `gorm:"default:0;index" json:"question_count"`

	IsActive    bool `gorm:"default:true;index" json:"is_active"`
	CreatedByID *int `json:"created_by_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
