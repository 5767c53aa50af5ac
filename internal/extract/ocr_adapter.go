package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/ocr"
)

// OCRAdapter bridges the poppler/tesseract client to the extractor
// contracts. PDFs go through the embedded text layer; plain .txt files
// are read directly and never OCRed.
type OCRAdapter struct {
	c *ocr.Client
}

func NewOCRAdapter(c *ocr.Client) *OCRAdapter {
	return &OCRAdapter{c: c}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		text, pages, err := a.c.TextLayer(ctx, path)
		return TextExtractionResult{
			Text:     text,
			Pages:    pages,
			Method:   "pdf-text",
			Duration: time.Since(start),
		}, err
	case constants.TXT:
		b, err := os.ReadFile(path)
		if err != nil {
			return TextExtractionResult{}, err
		}
		text := string(b)
		return TextExtractionResult{
			Text:     text,
			Pages:    1 + strings.Count(text, "\f"),
			Method:   "txt",
			Duration: time.Since(start),
		}, nil
	default:
		return TextExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (a *OCRAdapter) Recognize(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.PDF {
		return "", fmt.Errorf("ocr fallback only applies to PDF files, got %q", ext)
	}
	return a.c.Recognize(ctx, path)
}
