package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizgen/internal/apperr"
	"quizgen/internal/models"
	"quizgen/internal/quiz"
)

// HandleGenerate accepts a multipart upload ("file", "num_questions") and
// answers with the generated questions and their artifact names.
func (h *Handler) HandleGenerate(c *gin.Context) {
	// 1. Bound the request body
	if h.Config.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Config.MaxUploadBytes)
	}

	// 2. File field
	header, err := c.FormFile("file")
	if err != nil {
		switch {
		case isMaxBytesError(err):
			h.respondError(c, apperr.PayloadTooLarge(h.Config.MaxUploadBytes))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			h.respondError(c, apperr.MissingField("file"))
		default:
			h.respondError(c, apperr.InvalidInput("the upload could not be read as a multipart form"))
		}
		return
	}
	if header.Filename == "" {
		h.respondError(c, apperr.MissingField("file"))
		return
	}

	// 3. Question count
	count, appErr := h.parseCount(c.PostForm("num_questions"))
	if appErr != nil {
		h.respondError(c, appErr)
		return
	}

	// 4. Run the pipeline
	file, err := header.Open()
	if err != nil {
		h.respondError(c, apperr.Filesystem("failed to open the uploaded file", err))
		return
	}
	defer file.Close()

	result, err := h.Quiz.Run(c.Request.Context(), quiz.Request{
		ID:       RequestIDFrom(c),
		Filename: header.Filename,
		Content:  file,
		Count:    count,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 5. Remember the artifacts for the index page
	h.rememberArtifacts(c, result)

	// 6. Respond
	if wantsJSON(c) {
		c.JSON(http.StatusOK, models.GenerateResponse{
			RequestID:   result.RequestID,
			MCQs:        result.MCQs,
			TxtFilename: result.Artifacts.TxtFilename,
			PDFFilename: result.Artifacts.PDFFilename,
			Blocks:      result.Artifacts.Blocks,
			Pages:       result.Artifacts.Pages,
			TxtURL:      result.TxtURL,
			PDFURL:      result.PDFURL,
		})
		return
	}
	c.HTML(http.StatusOK, "results.html", gin.H{
		"Source":      result.SourceFilename,
		"MCQs":        result.MCQs,
		"TxtFilename": result.Artifacts.TxtFilename,
		"PDFFilename": result.Artifacts.PDFFilename,
		"Blocks":      result.Artifacts.Blocks,
		"Pages":       result.Artifacts.Pages,
		"PDFURL":      result.PDFURL,
	})
}

func (h *Handler) parseCount(raw string) (int, *apperr.Error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.MissingField("num_questions")
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput("num_questions must be a whole number")
	}
	if count < 1 || count > h.Config.MaxQuestions {
		return 0, apperr.InvalidInput(fmt.Sprintf("num_questions must be between 1 and %d", h.Config.MaxQuestions))
	}
	return count, nil
}

func (h *Handler) rememberArtifacts(c *gin.Context, result *quiz.Result) {
	err := addRecent(c, models.RecentArtifact{
		SourceFilename: result.SourceFilename,
		TxtFilename:    result.Artifacts.TxtFilename,
		PDFFilename:    result.Artifacts.PDFFilename,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		h.Logger.Warn("failed to save session", zap.Error(err))
	}
}
