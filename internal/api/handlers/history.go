package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizgen/internal/apperr"
	"quizgen/internal/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HandleHistory lists recent generations from the database.
func (h *Handler) HandleHistory(c *gin.Context) {
	if h.History == nil {
		h.respondError(c, apperr.Unavailable("generation history requires a database"))
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			h.respondError(c, apperr.InvalidInput("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	records, err := h.History.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if records == nil {
		records = []models.GenerationRecord{}
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Generations: records})
}
