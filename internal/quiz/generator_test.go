package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quizgen/internal/apperr"
)

// fakeModel records prompts and replies with a canned answer.
type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	block   bool
}

func (m *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func (m *fakeModel) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func TestGenerate_TrimsReply(t *testing.T) {
	model := &fakeModel{reply: "\n\n  ## MCQ\nQuestion: a?  \n"}
	g := NewGenerator(model, time.Minute, zaptest.NewLogger(t))

	got, err := g.Generate(context.Background(), "The sky is blue.", 1)
	require.NoError(t, err)
	assert.Equal(t, "## MCQ\nQuestion: a?", got)
	require.Len(t, model.calls(), 1)
	assert.Equal(t, BuildPrompt("The sky is blue.", 1), model.calls()[0])
}

func TestGenerate_ZeroCountStillCallsModel(t *testing.T) {
	model := &fakeModel{reply: ""}
	g := NewGenerator(model, time.Minute, zaptest.NewLogger(t))

	_, err := g.Generate(context.Background(), "text", 0)
	require.NoError(t, err)
	require.Len(t, model.calls(), 1)
	assert.Contains(t, model.calls()[0], "Please generate 0 MCQs")
}

func TestGenerate_ModelErrorIsExternalService(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := NewGenerator(&fakeModel{err: cause}, time.Minute, zaptest.NewLogger(t))

	_, err := g.Generate(context.Background(), "text", 3)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindExternalService))
	assert.ErrorIs(t, err, cause)
}

func TestGenerate_Timeout(t *testing.T) {
	model := &fakeModel{block: true}
	g := NewGenerator(model, 20*time.Millisecond, zaptest.NewLogger(t))

	_, err := g.Generate(context.Background(), "text", 3)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindExternalService))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, model.calls(), 1, "no retry")
}
