package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var errNullPage = errors.New("page has no content")

// pageSource is the part of a paged document the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

type ledongthucPages struct {
	r *pdf.Reader
}

func (p ledongthucPages) NumPage() int {
	return p.r.NumPage()
}

// PageText returns the plain text of page num (1-based).
func (p ledongthucPages) PageText(num int) (string, error) {
	page := p.r.Page(num)
	if page.V.IsNull() {
		return "", errNullPage
	}
	return page.GetPlainText(nil)
}

func (e *Extractor) extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	return e.joinPages(path, ledongthucPages{r: r}), nil
}

// joinPages concatenates every page's text with no separator. A page that
// yields nothing contributes an empty string.
func (e *Extractor) joinPages(path string, src pageSource) string {
	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			e.logger.Warn("skipping PDF page without extractable text",
				zap.String("file", path),
				zap.Int("page", i),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}
