package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizgen/internal/apperr"
	"quizgen/internal/models"
	"quizgen/internal/quiz"
)

// RequestIDKey is the gin context key holding the request's uuid.UUID.
const RequestIDKey = "request_id"

// QuizRunner runs the generation pipeline for one upload.
type QuizRunner interface {
	Run(ctx context.Context, req quiz.Request) (*quiz.Result, error)
}

// HistoryStore lists past generations.
type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]models.GenerationRecord, error)
}

// Config holds the limits and paths the handlers enforce.
type Config struct {
	ResultsDir     string
	MaxQuestions   int
	MaxUploadBytes int64
}

// Handler contains the HTTP handlers dependencies
type Handler struct {
	Quiz    QuizRunner
	History HistoryStore // nil when no database is configured
	Config  Config
	Logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(runner QuizRunner, history HistoryStore, cfg Config, logger *zap.Logger) *Handler {
	return &Handler{
		Quiz:    runner,
		History: history,
		Config:  cfg,
		Logger:  logger,
	}
}

// RequestIDFrom returns the ID assigned by the request ID middleware, or uuid.Nil.
func RequestIDFrom(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// wantsJSON reports whether the response should be JSON rather than an HTML page.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.FullPath(), "/api/") {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// respondError logs err and writes it as an error page or a JSON error body.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)

	log := h.Logger.With(
		zap.String("request_id", RequestIDFrom(c).String()),
		zap.String("error_type", string(appErr.Kind)),
		zap.Int("status", appErr.Status))
	if appErr.Status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Info("request rejected", zap.Error(err))
	}
	c.Error(err)

	if wantsJSON(c) {
		c.AbortWithStatusJSON(appErr.Status, models.ErrorResponse{
			Error: models.ErrorBody{Type: string(appErr.Kind), Message: appErr.Message},
		})
		return
	}
	c.HTML(appErr.Status, "error.html", gin.H{
		"Status":  appErr.Status,
		"Type":    appErr.Kind,
		"Message": appErr.Message,
	})
	c.Abort()
}

func isMaxBytesError(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
