// Package textextract turns an uploaded document into one raw text blob for
// the line-item extractor. It is the text-extraction collaborator boundary:
// everything downstream sees only character data.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// PageBreakMarker separates pages in multi-page documents. The line carries
// no price token, so the line-item extractor skips it naturally.
const PageBreakMarker = "--PAGE BREAK--"

// ErrUnsupportedType is returned for file extensions no extractor handles.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor produces raw text from one uploaded document.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Dispatcher routes an upload to the PDF or image extractor by extension.
type Dispatcher struct {
	pdf   Extractor
	image Extractor
}

// NewDispatcher builds a Dispatcher. Either extractor may be nil, which
// makes its file types unsupported.
func NewDispatcher(pdf, image Extractor) *Dispatcher {
	return &Dispatcher{pdf: pdf, image: image}
}

// Extract dispatches on the filename extension.
func (d *Dispatcher) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "pdf":
		if d.pdf == nil {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
		}
		return d.pdf.Extract(ctx, filename, data)
	case "png", "jpg", "jpeg", "gif":
		if d.image == nil {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
		}
		return d.image.Extract(ctx, filename, data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}
