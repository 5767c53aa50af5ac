package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text layer.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "txt" | "pdf-ocr"
	Duration time.Duration
	Warnings []string
}

// Recognizer is the OCR fallback: rasterize and recognize. The extractor
// calls it at most once per document.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}
