package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/service"
)

type QuestionHandler struct {
	db  *gorm.DB
	svc *service.Service
}

func NewQuestionHandler(db *gorm.DB, svc *service.Service) *QuestionHandler {
	return &QuestionHandler{db: db, svc: svc}
}

const listExcerptLength = 200

func excerpt(description string) string {
	runes := []rune(description)
	if len(runes) <= listExcerptLength {
		return description
	}
	return string(runes[:listExcerptLength]) + "..."
}

func authorPayload(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"avatar_url": user.AvatarURL,
	}
}

// GetQuestions returns a page of live questions with filtering and sorting.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var params struct {
		Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
		Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
		Sort   string `form:"sort,default=newest" binding:"omitempty,oneof=newest unanswered votes"`
		Tags   string `form:"tags"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation errors"})
		return
	}

	query := h.db.Model(&models.Question{}).Where("questions.is_deleted = ?", false)

	if params.Tags != "" {
		tagList := splitTags(params.Tags)
		if len(tagList) > 0 {
			sub := h.db.Table("question_tags").
				Select("question_tags.question_id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where("tags.name IN ?", tagList)
			query = query.Where("questions.id IN (?)", sub)
		}
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("(questions.title ILIKE ? OR questions.description ILIKE ?)", pattern, pattern)
	}

	order := "created_at desc"
	switch params.Sort {
	case "unanswered":
		query = query.Where("questions.answer_count = 0")
	case "votes":
		order = "vote_count desc, created_at desc"
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
		Order(order).
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
			"id":           question.ID,
			"title":        question.Title,
			"description":  excerpt(question.Description),
			"tags":         question.TagNames(),
			"author":       authorPayload(question.Author),
			"vote_count":   question.VoteCount,
			"answer_count": question.AnswerCount,
			"created_at":   question.CreatedAt,
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

// GetQuestion returns a single question with its answers, accepted answer
// first. The view counter is bumped on every fetch.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var question models.Question
	err := h.db.Preload("Author").Preload("Tags").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&question).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
		return
	}

	h.db.Model(&question).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	question.ViewCount++

	var answers []models.Answer
	err = h.db.Where("question_id = ? AND is_deleted = ?", question.ID, false).
		Preload("Author").
		Order("vote_count desc, created_at asc").
		Find(&answers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch answers"})
		return
	}

	// Accepted answer sorts first regardless of votes.
	if question.AcceptedAnswerID != nil {
		for i, answer := range answers {
			if answer.ID == *question.AcceptedAnswerID && i > 0 {
				accepted := answers[i]
				copy(answers[1:i+1], answers[0:i])
				answers[0] = accepted
				break
			}
		}
	}

	questionVote, answerVotes := h.userVotes(c, question.ID, answers)

	answerResponses := make([]gin.H, 0, len(answers))
	for _, answer := range answers {
		isAccepted := question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answer.ID
		item := gin.H{
			"id":          answer.ID,
			"content":     answer.Content,
			"author":      authorPayload(answer.Author),
			"vote_count":  answer.VoteCount,
			"is_accepted": isAccepted,
			"created_at":  answer.CreatedAt,
			"userVote":    answerVotes[answer.ID],
		}
		if isAccepted {
			item["accepted_at"] = question.AcceptedAt
		}
		answerResponses = append(answerResponses, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"question": gin.H{
			"id":           question.ID,
			"title":        question.Title,
			"description":  question.Description,
			"tags":         question.TagNames(),
			"author":       authorPayload(question.Author),
			"vote_count":   question.VoteCount,
			"answer_count": question.AnswerCount,
			"view_count":   question.ViewCount,
			"created_at":   question.CreatedAt,
			"userVote":     questionVote,
			"answers":      answerResponses,
		},
	})
}

// userVotes resolves the authenticated caller's current vote on the question
// and each answer. Values are nil when the caller is anonymous or has no vote.
func (h *QuestionHandler) userVotes(c *gin.Context, questionID int, answers []models.Answer) (interface{}, map[int]interface{}) {
	answerVotes := make(map[int]interface{}, len(answers))
	for _, answer := range answers {
		answerVotes[answer.ID] = nil
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, answerVotes
	}

	answerIDs := make([]int, 0, len(answers))
	for _, answer := range answers {
		answerIDs = append(answerIDs, answer.ID)
	}

	scope := h.db.Where("user_id = ? AND question_id = ?", user.ID, questionID)
	if len(answerIDs) > 0 {
		scope = h.db.Where("user_id = ? AND (question_id = ? OR answer_id IN ?)", user.ID, questionID, answerIDs)
	}

	var votes []models.Vote
	if err := scope.Find(&votes).Error; err != nil {
		return nil, answerVotes
	}

	var questionVote interface{}
	for _, vote := range votes {
		switch {
		case vote.QuestionID != nil && *vote.QuestionID == questionID:
			questionVote = vote.Type
		case vote.AnswerID != nil:
			answerVotes[*vote.AnswerID] = vote.Type
		}
	}
	return questionVote, answerVotes
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Tags        []string `json:"tags" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	question, err := h.svc.CreateQuestion(c.Request.Context(), user, input.Title, input.Description, input.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Question created successfully",
		"question": gin.H{
			"id":           question.ID,
			"title":        question.Title,
			"description":  question.Description,
			"tags":         question.TagNames(),
			"author":       authorPayload(question.Author),
			"vote_count":   question.VoteCount,
			"answer_count": question.AnswerCount,
			"created_at":   question.CreatedAt,
		},
	})
}

// CreateAnswer adds an answer to a question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	questionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	answer, err := h.svc.CreateAnswer(c.Request.Context(), user, questionID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Answer added successfully",
		"answer": gin.H{
			"id":          answer.ID,
			"content":     answer.Content,
			"question_id": answer.QuestionID,
			"author":      authorPayload(answer.Author),
			"vote_count":  answer.VoteCount,
			"is_accepted": false,
			"created_at":  answer.CreatedAt,
		},
	})
}

// VoteQuestion handles voting on a question (PROTECTED - requires authentication)
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	voteOn(c, h.svc, service.TargetQuestion)
}
