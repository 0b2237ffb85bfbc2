package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx package: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxMainPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxMainPart, err)
		}
		defer rc.Close()
		return paragraphText(rc)
	}
	return "", errors.New("docx package has no " + docxMainPart)
}

// paragraphText concatenates the text of the top-level body paragraphs of a
// WordprocessingML document. Paragraphs nested in tables or text boxes are
// not body paragraphs and are skipped.
func paragraphText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb    strings.Builder
		stack []string
		para  = -1 // stack index of the body paragraph being read
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxMainPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "p" && para < 0 && len(stack) > 0 && stack[len(stack)-1] == "body" {
				para = len(stack)
			}
			stack = append(stack, name)
			if para < 0 || !inParagraphRun(stack, para) {
				continue
			}
			switch name {
			case "tab", "ptab":
				sb.WriteByte('\t')
			case "br":
				if isLineBreak(t) {
					sb.WriteByte('\n')
				}
			case "cr":
				sb.WriteByte('\n')
			case "noBreakHyphen":
				sb.WriteByte('-')
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == para {
				para = -1
			}
		case xml.CharData:
			if para >= 0 && len(stack) > 0 && stack[len(stack)-1] == "t" && inParagraphRun(stack, para) {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// inParagraphRun reports whether the innermost element sits in a run owned
// by the paragraph at stack[para], directly or through a hyperlink.
func inParagraphRun(stack []string, para int) bool {
	n := len(stack)
	if n < 2 || stack[n-2] != "r" {
		return false
	}
	switch n - 2 - para {
	case 1:
		return true
	case 2:
		return stack[para+1] == "hyperlink"
	}
	return false
}

// isLineBreak reports whether a w:br is a text-wrapping break. Page and
// column breaks contribute no text.
func isLineBreak(br xml.StartElement) bool {
	for _, a := range br.Attr {
		if a.Name.Local == "type" {
			return a.Value == "" || a.Value == "textWrapping"
		}
	}
	return true
}
