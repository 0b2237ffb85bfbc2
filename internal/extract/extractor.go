// Package extract turns uploaded documents into plain text.
package extract

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	ExtPDF  = "pdf"
	ExtTXT  = "txt"
	ExtDOCX = "docx"
)

// NormalizeExt lowercases ext and drops a leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Supported reports whether ext is one of pdf, txt or docx.
func Supported(ext string) bool {
	switch NormalizeExt(ext) {
	case ExtPDF, ExtTXT, ExtDOCX:
		return true
	}
	return false
}

// Extractor reads the text content of a stored upload.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the text of the file at path, dispatching on ext.
// ok is false when ext is not supported; that case never returns an error.
// An empty string with ok true means the document had no text.
func (e *Extractor) Extract(path, ext string) (text string, ok bool, err error) {
	switch NormalizeExt(ext) {
	case ExtPDF:
		text, err = e.extractPDF(path)
	case ExtDOCX:
		text, err = extractDOCX(path)
	case ExtTXT:
		text, err = extractTXT(path)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", true, err
	}

	e.logger.Debug("extracted text",
		zap.String("path", path),
		zap.String("ext", NormalizeExt(ext)),
		zap.Int("chars", len(text)))
	return text, true, nil
}

func extractTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}
