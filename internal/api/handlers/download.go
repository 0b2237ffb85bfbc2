package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"quizgen/internal/apperr"
	"quizgen/internal/artifact"
)

// HandleDownload serves a generated artifact from the results directory as an attachment.
// Only bare artifact file names are accepted.
func (h *Handler) HandleDownload(c *gin.Context) {
	name := c.Param("filename")
	if !isSafeName(name) {
		h.respondError(c, apperr.InvalidInput("invalid file name"))
		return
	}
	if !artifact.IsArtifactName(name) {
		h.respondError(c, apperr.NotFound("no such file: "+name))
		return
	}

	path := filepath.Join(h.Config.ResultsDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		h.respondError(c, apperr.NotFound("no such file: "+name))
		return
	}

	c.FileAttachment(path, name)
}

// isSafeName rejects anything that could leave the results directory.
func isSafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return filepath.Base(name) == name
}
