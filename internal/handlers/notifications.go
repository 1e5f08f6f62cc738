package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/service"
)

type NotificationHandler struct {
	svc *service.Service
}

func NewNotificationHandler(svc *service.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// GetNotifications returns a page of the caller's notifications.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	result, err := h.svc.ListNotifications(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch notifications"})
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, n := range result.Items {
		item := gin.H{
			"id":        n.ID,
			"type":      n.Type,
			"message":   n.Message,
			"timestamp": n.CreatedAt,
			"isRead":    n.IsRead,
		}
		if n.Sender != nil {
			item["sender"] = gin.H{
				"username":   n.Sender.Username,
				"avatar_url": n.Sender.AvatarURL,
			}
		} else {
			item["sender"] = nil
		}
		if n.Question != nil {
			item["relatedQuestion"] = gin.H{
				"id":    n.Question.ID,
				"title": n.Question.Title,
			}
		} else {
			item["relatedQuestion"] = nil
		}
		items = append(items, item)
	}

	if limit < 1 {
		limit = 20
	}
	totalPages := (result.Total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": items,
		"pagination": gin.H{
			"page":               page,
			"totalPages":         totalPages,
			"totalNotifications": result.Total,
			"unreadCount":        result.Unread,
		},
	})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkNotificationRead(c.Request.Context(), id, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	if err := h.svc.MarkAllNotificationsRead(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications marked as read",
	})
}
