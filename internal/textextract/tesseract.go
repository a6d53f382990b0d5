package textextract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Tesseract runs OCR on image uploads by shelling out to the tesseract
// binary, the same engine the reference deployment used.
type Tesseract struct {
	// Binary is the tesseract executable, "tesseract" by default.
	Binary string

	// Languages is the tesseract -l argument, e.g. "deu+eng". Empty uses
	// the engine default.
	Languages string
}

// NewTesseract creates an OCR extractor using the given binary path.
func NewTesseract(binary, languages string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{Binary: binary, Languages: languages}
}

// Extract writes the image to a temp file and reads tesseract's stdout.
func (t *Tesseract) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp image: %w", err)
	}

	// "-" sends the recognized text to stdout.
	args := []string{tmp.Name(), "-"}
	if t.Languages != "" {
		args = append(args, "-l", t.Languages)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Binary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed on %s: %w: %s", filename, err, stderr.String())
	}

	return out.String(), nil
}
