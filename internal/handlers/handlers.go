package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/service"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Tag          *TagHandler
	Notification *NotificationHandler
	User         *UserHandler
	Admin        *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	svc := service.New(db)

	return &Handler{
		Auth:         NewAuthHandler(db),
		Question:     NewQuestionHandler(db, svc),
		Answer:       NewAnswerHandler(svc),
		Tag:          NewTagHandler(svc),
		Notification: NewNotificationHandler(svc),
		User:         NewUserHandler(db),
		Admin:        NewAdminHandler(db, svc),
	}
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a core error into the {success:false, message}
// response shape.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal Server Error",
		})
		return
	}

	body := gin.H{
		"success": false,
		"message": appErr.Message,
	}
	if appErr.Field != "" {
		body["errors"] = []gin.H{{"field": appErr.Field, "message": appErr.Message}}
	}

	c.JSON(statusCode(appErr), body)
}

// paramID parses a numeric path parameter, responding with 400 on garbage.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid ID format",
		})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// splitTags parses the comma-separated tags filter.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
