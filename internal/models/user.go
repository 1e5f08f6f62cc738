package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role   string `gorm:"size:10;default:user;index" json:"role"`
	Status string `gorm:"size:10;default:active" json:"status"`

	Bio       string `gorm:"size:500" json:"bio"`
	AvatarURL string `json:"avatar_url"`
	Location  string `gorm:"size:100" json:"location"`
	Website   string `gorm:"size:200" json:"website"`

	// Derived counters, maintained as side effects of votes and acceptance.
	Reputation      int `gorm:"default:0" json:"reputation"`
	QuestionsCount  int `gorm:"default:0" json:"questions_count"`
	AnswersCount    int `gorm:"default:0" json:"answers_count"`
	UpvotesReceived int `gorm:"default:0" json:"upvotes_received"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
