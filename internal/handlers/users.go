package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUserProfile returns a user's public profile with their recent questions.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var questions []models.Question
	h.db.Where("author_id = ? AND is_deleted = ?", user.ID, false).
		Preload("Tags").
		Order("created_at desc").
		Limit(10).
		Find(&questions)

	recent := make([]gin.H, 0, len(questions))
	for _, question := range questions {
		recent = append(recent, gin.H{
			"id":           question.ID,
			"title":        question.Title,
			"tags":         question.TagNames(),
			"vote_count":   question.VoteCount,
			"answer_count": question.AnswerCount,
			"created_at":   question.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"bio":              user.Bio,
			"avatar_url":       user.AvatarURL,
			"location":         user.Location,
			"website":          user.Website,
			"reputation":       user.Reputation,
			"questions_count":  user.QuestionsCount,
			"answers_count":    user.AnswersCount,
			"upvotes_received": user.UpvotesReceived,
			"created_at":       user.CreatedAt,
		},
		"questions": recent,
	})
}
