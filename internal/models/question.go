package models

import "time"

type Question struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	AuthorID int  `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	Tags []Tag `gorm:"many2many:question_tags;" json:"-"`

	VoteCount   int `gorm:"default:0;index" json:"vote_count"`
	AnswerCount int `gorm:"default:0;index" json:"answer_count"`
	ViewCount   int `gorm:"default:0" json:"view_count"`

	// Acceptance lives on the question so at most one answer can ever be
	// accepted for it.
	AcceptedAnswerID *int       `json:"accepted_answer_id,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	AcceptedByID     *int       `json:"accepted_by_id,omitempty"`

	IsDeleted   bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedByID *int       `json:"deleted_by_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagNames flattens the loaded tag rows into the plain string list the API
// serves.
func (q *Question) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Name)
	}
	return names
}
