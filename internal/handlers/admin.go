package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/service"
)

type AdminHandler struct {
	db  *gorm.DB
	svc *service.Service
}

func NewAdminHandler(db *gorm.DB, svc *service.Service) *AdminHandler {
	return &AdminHandler{db: db, svc: svc}
}

// GetUsers returns a page of accounts, optionally filtered by a username or
// email search term.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	var params struct {
		Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
		Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
		Search string `form:"search" binding:"omitempty,max=100"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation errors"})
		return
	}

	query := h.db.Model(&models.User{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("(username ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	var users []models.User
	err := query.
		Order("created_at desc").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	responses := make([]gin.H, 0, len(users))
	for _, user := range users {
		responses = append(responses, gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"email":           user.Email,
			"role":            user.Role,
			"status":          user.Status,
			"reputation":      user.Reputation,
			"questions_count": user.QuestionsCount,
			"answers_count":   user.AnswersCount,
			"created_at":      user.CreatedAt,
		})
	}

	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   responses,
		"pagination": gin.H{
			"page":       params.Page,
			"totalPages": totalPages,
			"totalUsers": total,
			"hasNext":    int64(params.Page) < totalPages,
			"hasPrev":    params.Page > 1,
		},
	})
}

// UpdateUserStatus blocks or unblocks an account.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=active blocked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status must be active or blocked"})
		return
	}

	user, err := h.svc.SetUserStatus(c.Request.Context(), actor, userID, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "User unblocked successfully"
	if user.Status == models.StatusBlocked {
		message = "User blocked successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"status":   user.Status,
		},
	})
}

// GetQuestions returns all questions, optionally including soft-deleted ones.
func (h *AdminHandler) GetQuestions(c *gin.Context) {
	var params struct {
		Page           int  `form:"page,default=1" binding:"omitempty,min=1"`
		Limit          int  `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
		IncludeDeleted bool `form:"includeDeleted"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation errors"})
		return
	}

	query := h.db.Model(&models.Question{})
	if !params.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch questions"})
		return
	}

	var questions []models.Question
	err := query.
		Preload("Author").
		Preload("Tags").
		Order("created_at desc").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch questions"})
		return
	}

	responses := make([]gin.H, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, gin.H{
			"id":    question.ID,
			"title": question.Title,
			"tags":  question.TagNames(),
			"author": gin.H{
				"id":       question.Author.ID,
				"username": question.Author.Username,
				"email":    question.Author.Email,
			},
			"vote_count":    question.VoteCount,
			"answer_count":  question.AnswerCount,
			"is_deleted":    question.IsDeleted,
			"deleted_at":    question.DeletedAt,
			"deleted_by_id": question.DeletedByID,
			"created_at":    question.CreatedAt,
		})
	}

	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"questions": responses,
		"pagination": gin.H{
			"page":           params.Page,
			"totalPages":     totalPages,
			"totalQuestions": total,
			"hasNext":        int64(params.Page) < totalPages,
			"hasPrev":        params.Page > 1,
		},
	})
}

// DeleteQuestion soft deletes a question.
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.SoftDeleteQuestion(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Question deleted successfully",
	})
}

// DeleteAnswer soft deletes an answer.
func (h *AdminHandler) DeleteAnswer(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.SoftDeleteAnswer(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Answer deleted successfully",
	})
}

// CreateTag registers a new tag.
func (h *AdminHandler) CreateTag(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	tag, err := h.svc.CreateTag(c.Request.Context(), actor, input.Name, input.Description, input.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Tag created successfully",
		"tag":     tag,
	})
}

// DeleteTag deactivates a tag.
func (h *AdminHandler) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivateTag(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tag deactivated successfully",
	})
}
