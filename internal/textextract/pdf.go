package textextract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts embedded text from PDF documents. It only reads the text
// layer; image-only PDFs come back empty and need the OCR path instead.
type PDF struct{}

// NewPDF creates a PDF text extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extract returns the plain text of every page, joined with PageBreakMarker
// lines. Pages that fail to decode are skipped so one bad page does not lose
// the rest of the document.
func (p *PDF) Extract(_ context.Context, filename string, data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction crashed on %s: %v", filename, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", filename, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimSpace(pageText))
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("pdf %s contains no extractable text (image-only?)", filename)
	}

	return strings.Join(pages, "\n"+PageBreakMarker+"\n"), nil
}
