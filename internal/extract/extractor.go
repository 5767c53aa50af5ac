package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
)

const DefaultMinTextTokens = 20

// Extractor turns an invoice file into a structured Invoice. The text
// layer is tried first; when it yields fewer than MinTextTokens
// recognizable tokens the document is delegated to the Recognizer exactly
// once. There is no retry loop beyond that single delegation.
type Extractor struct {
	registry      *provider.Registry
	text          TextExtractor
	recognizer    Recognizer
	minTextTokens int
	logger        *slog.Logger
}

type Option func(*Extractor)

func WithMinTextTokens(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minTextTokens = n
		}
	}
}

func NewExtractor(registry *provider.Registry, text TextExtractor, recognizer Recognizer, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		registry:      registry,
		text:          text,
		recognizer:    recognizer,
		minTextTokens: DefaultMinTextTokens,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result carries the structured invoice plus provenance for the caller.
type Result struct {
	Invoice    *entity.Invoice
	Provider   provider.RuleSet
	Confidence provider.Confidence
	Method     string
	UsedOCR    bool
}

// Run extracts the invoice at path. A non-empty hint forces the named
// provider's rule set, bypassing marker matching.
func (e *Extractor) Run(ctx context.Context, path, hint string) (*Result, error) {
	res, err := e.text.Extract(ctx, path)
	if err != nil {
		// A broken or image-only text layer is weak signal, not a hard
		// failure; fall through to the gate with empty text.
		e.logger.Warn("extract.text_layer.failed", "path", path, "error", err)
		res = TextExtractionResult{}
	}

	text := res.Text
	method := res.Method
	usedOCR := false

	tokens := countTokens(text)
	if tokens < e.minTextTokens {
		e.logger.Info("extract.ocr_gate.triggered",
			"path", path,
			"tokens", tokens,
			"min_tokens", e.minTextTokens,
		)
		ocrText, ocrErr := e.recognizer.Recognize(ctx, path)
		if ocrErr != nil {
			variant, _ := constants.ProviderFromString(hint)
			return nil, &provider.ExtractionError{
				Provider: variant,
				Reason:   provider.ReasonOCRExhausted,
				Err:      ocrErr,
			}
		}
		text = ocrText
		method = "pdf-ocr"
		usedOCR = true
	}

	doc := provider.NewDocument(text)

	rs, conf, err := e.registry.Identify(doc, hint)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("extract.provider.identified",
		"path", path,
		"provider", rs.Variant().String(),
		"confidence", string(conf),
	)

	inv, err := rs.Extract(doc)
	if err != nil {
		if usedOCR {
			return nil, &provider.ExtractionError{
				Provider: rs.Variant(),
				Reason:   provider.ReasonOCRExhausted,
				Err:      err,
			}
		}
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	e.logger.Info("extract.invoice.done",
		"path", path,
		"provider", rs.Variant().String(),
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
		"used_ocr", usedOCR,
	)
	return &Result{
		Invoice:    inv,
		Provider:   rs,
		Confidence: conf,
		Method:     method,
		UsedOCR:    usedOCR,
	}, nil
}

// countTokens counts whitespace-separated tokens that contain at least
// one letter or digit. Garbled text layers tend to produce long runs of
// punctuation noise which should not count as signal.
func countTokens(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		for _, r := range tok {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				n++
				break
			}
		}
	}
	return n
}
