package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/service"
)

type AnswerHandler struct {
	svc *service.Service
}

func NewAnswerHandler(svc *service.Service) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

// voteOn applies the caller's vote to the entity in the :id path parameter
// and reports the resulting aggregate and direction.
func voteOn(c *gin.Context, svc *service.Service, target service.VoteTarget) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Type string `json:"type" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": `Vote type must be "up" or "down"`,
		})
		return
	}

	result, err := svc.Vote(c.Request.Context(), target, targetID, user, input.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	var userVote interface{}
	if result.UserVote != "" {
		userVote = result.UserVote
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Vote recorded successfully",
		"voteCount": result.VoteCount,
		"userVote":  userVote,
	})
}

// VoteAnswer handles voting on an answer (PROTECTED - requires authentication)
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	voteOn(c, h.svc, service.TargetAnswer)
}

// AcceptAnswer toggles answer acceptance (PROTECTED - question author only)
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.AcceptAnswer(c.Request.Context(), answerID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Answer acceptance removed"
	if result.IsAccepted {
		message = "Answer accepted successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"isAccepted": result.IsAccepted,
	})
}
