package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TagCloud 标签云数据
func (h *Handler) TagCloud(c *gin.Context) {
	items, err := h.tagCloud.Build(c.Request.Context(), h.cfg.Blog.TagCloudLimit)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": items})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "jbt-blog",
	})
}
