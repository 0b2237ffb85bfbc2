// Package artifact writes generated questions to the txt and pdf files offered for download.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/renameio/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quizgen/internal/apperr"
	"quizgen/internal/models"
	"quizgen/internal/quiz"
)

// Prefix starts the name of every artifact.
const Prefix = "generated_mcqs_"

const (
	fontFamily  = "Arial"
	fontSize    = 12
	lineHeight  = 10
	blockMargin = 5
)

func init() {
	// Page counting must not create a pdfcpu config directory under $HOME.
	api.DisableConfigDir()
}

// Names returns the txt and pdf file names for base.
func Names(base string) (txt, pdf string) {
	return Prefix + base + ".txt", Prefix + base + ".pdf"
}

// IsArtifactName reports whether name looks like something Names produced.
func IsArtifactName(name string) bool {
	if !strings.HasPrefix(name, Prefix) {
		return false
	}
	ext := filepath.Ext(name)
	return (ext == ".txt" || ext == ".pdf") && len(name) > len(Prefix)+len(ext)
}

// Writer writes artifacts into a results directory that must already exist.
type Writer struct {
	dir    string
	logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Serialize writes raw verbatim to the txt artifact and one PDF cell per
// question block to the pdf artifact, overwriting any earlier files for base.
func (w *Writer) Serialize(ctx context.Context, raw, base string) (models.Artifacts, error) {
	if info, err := os.Stat(w.dir); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", w.dir)
		}
		return models.Artifacts{}, apperr.Filesystem("results directory is not available", err)
	}

	txtName, pdfName := Names(base)
	arts := models.Artifacts{
		TxtFilename: txtName,
		PDFFilename: pdfName,
		TxtPath:     filepath.Join(w.dir, txtName),
		PDFPath:     filepath.Join(w.dir, pdfName),
	}
	blocks := quiz.SplitBlocks(raw)
	arts.Blocks = len(blocks)

	var rendered int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeFile(arts.TxtPath, []byte(raw))
	})
	g.Go(func() error {
		data, pages, err := renderPDF(blocks)
		if err != nil {
			return err
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		rendered = pages
		return writeFile(arts.PDFPath, data)
	})
	if err := g.Wait(); err != nil {
		return models.Artifacts{}, apperr.Filesystem("failed to write the generated files", err)
	}

	arts.Pages = w.pageCount(arts.PDFPath, rendered)
	w.logger.Debug("wrote artifacts",
		zap.String("txt", arts.TxtPath),
		zap.String("pdf", arts.PDFPath),
		zap.Int("blocks", arts.Blocks),
		zap.Int("pages", arts.Pages))
	return arts, nil
}

// pageCount reads the page count back from the written file, falling back to
// the count reported while rendering.
func (w *Writer) pageCount(path string, rendered int) int {
	n, err := api.PageCountFile(path)
	if err != nil {
		w.logger.Warn("failed to read back PDF page count", zap.String("pdf", path), zap.Error(err))
		return rendered
	}
	return n
}

// renderPDF lays out each block as a multi-line cell on A4 pages.
func renderPDF(blocks []string) ([]byte, int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", fontSize)
	for _, block := range blocks {
		pdf.MultiCell(0, lineHeight, tr(block), "", "", false)
		pdf.Ln(blockMargin)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), pdf.PageCount(), nil
}

// writeFile replaces path with data through a temporary file and a rename,
// so a concurrent download sees either the old file or the new one.
func writeFile(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
