package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-qa/backend/internal/service"
)

type TagHandler struct {
	svc *service.Service
}

func NewTagHandler(svc *service.Service) *TagHandler {
	return &TagHandler{svc: svc}
}

// GetTags returns active tags; the plain name list plus the full rows.
func (h *TagHandler) GetTags(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	sort := c.DefaultQuery("sort", "popular")

	tags, err := h.svc.ListTags(c.Request.Context(), sort, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tags"})
		return
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"tags":     names,
		"fullTags": tags,
	})
}

// GetPopularTags returns in-use tags with their usage counts.
func (h *TagHandler) GetPopularTags(c *gin.Context) {
	limit := queryInt(c, "limit", 20)

	tags, err := h.svc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
	})
}
