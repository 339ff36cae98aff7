package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a document file into plain text for the parser. The
// pipeline depends on this interface so tests can substitute canned text.
type Extractor interface {
	ExtractText(path string) (string, error)
}

type pdfExtractor struct{}

// New returns the production PDF text extractor.
func New() Extractor {
	return &pdfExtractor{}
}

// ExtractText reads every page of the PDF and emits one text line per visual
// row, pages concatenated in order. Page boundaries are not marked; the
// downstream parser works on a flat line stream.
func (e *pdfExtractor) ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d of %s: %w", pageNum, path, err)
		}

		for _, row := range rows {
			for _, text := range row.Content {
				sb.WriteString(text.S)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
