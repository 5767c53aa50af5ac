package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/bgv-audit/internal/audit"
	"github.com/joseph-ayodele/bgv-audit/internal/common"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
	"github.com/joseph-ayodele/bgv-audit/internal/extract"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
	"github.com/joseph-ayodele/bgv-audit/internal/report"
	"github.com/joseph-ayodele/bgv-audit/internal/repository"
)

// Outcome is everything one invoice run produces.
type Outcome struct {
	Invoice    *entity.Invoice
	Result     *entity.AuditResult
	Report     *entity.Report
	ReportJSON []byte
	Confidence provider.Confidence
	UsedOCR    bool
}

// Processor coordinates extract (with the OCR gate), audit, and report
// for one file at a time. It holds no per-request state; concurrent
// ProcessFile calls only share the stores.
type Processor struct {
	logger    *slog.Logger
	extractor *extract.Extractor
	engine    *audit.Engine
	results   repository.ResultStore
}

func NewProcessor(logger *slog.Logger, extractor *extract.Extractor, engine *audit.Engine, results repository.ResultStore) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		engine:    engine,
		results:   results,
	}
}

// ProcessFile extracts the invoice at path, audits it, builds the review
// report, and persists the audit result. A non-empty hint forces the
// named provider's rule set. Extraction failures satisfy
// provider.IsExtractionError; anything else is infrastructure.
func (p *Processor) ProcessFile(ctx context.Context, path, hint string) (*Outcome, error) {
	logger := p.logger
	if traceID := common.RequestIDFromContext(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}

	extRes, err := p.extractor.Run(ctx, path, hint)
	if err != nil {
		logger.Error("processor.extract.failed",
			"path", path,
			"provider", provider.ProviderName(err),
			"extraction_error", provider.IsExtractionError(err),
			"err", err,
		)
		return nil, err
	}
	inv := extRes.Invoice
	logger.Info("processor.extract.ok",
		"path", path,
		"provider", inv.Provider.String(),
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
		"used_ocr", extRes.UsedOCR,
	)

	res, err := p.engine.Audit(ctx, inv)
	if err != nil {
		logger.Error("processor.audit.failed", "invoice_number", inv.InvoiceNumber, "err", err)
		return nil, err
	}

	rep := report.Build(res)
	repJSON, err := report.Encode(rep)
	if err != nil {
		logger.Error("processor.report.failed", "invoice_number", inv.InvoiceNumber, "err", err)
		return nil, err
	}

	if p.results != nil {
		if err := p.results.Save(ctx, res); err != nil {
			logger.Error("processor.persist.failed", "invoice_number", inv.InvoiceNumber, "err", err)
			return nil, err
		}
	}

	logger.Info("processor.audit.ok",
		"invoice_number", inv.InvoiceNumber,
		"status", string(res.Status),
		"findings", len(res.Findings),
	)
	return &Outcome{
		Invoice:    inv,
		Result:     res,
		Report:     rep,
		ReportJSON: repJSON,
		Confidence: extRes.Confidence,
		UsedOCR:    extRes.UsedOCR,
	}, nil
}
