package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleIndex renders the upload form and this session's earlier artifacts.
func (h *Handler) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"MaxQuestions": h.Config.MaxQuestions,
		"Recent":       recentArtifacts(c),
	})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "quizgen"})
}
