package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"quizgen/internal/apperr"
)

// TextModel is a generative model that answers a single text prompt.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator asks the model for count questions about a document.
type Generator struct {
	model   TextModel
	timeout time.Duration
	logger  *zap.Logger
}

func NewGenerator(model TextModel, timeout time.Duration, logger *zap.Logger) *Generator {
	return &Generator{model: model, timeout: timeout, logger: logger}
}

// Generate makes exactly one model call and returns the trimmed reply.
// count is passed through as given. Any model failure, including the
// deadline expiring, is an external_service error.
func (g *Generator) Generate(ctx context.Context, text string, count int) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.model.GenerateText(ctx, BuildPrompt(text, count))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("model call timed out after %s: %w", g.timeout, err)
		}
		g.logger.Error("model call failed",
			zap.Int("questions", count),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", apperr.ExternalService(err)
	}

	g.logger.Info("model call finished",
		zap.Int("questions", count),
		zap.Int("input_chars", len(text)),
		zap.Int("reply_chars", len(reply)),
		zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(reply), nil
}
