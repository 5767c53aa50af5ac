package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/internal/audit"
	"github.com/joseph-ayodele/bgv-audit/internal/common"
	"github.com/joseph-ayodele/bgv-audit/internal/export"
	"github.com/joseph-ayodele/bgv-audit/internal/extract"
	"github.com/joseph-ayodele/bgv-audit/internal/ocr"
	"github.com/joseph-ayodele/bgv-audit/internal/pipeline"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
)

func main() {
	var (
		file = flag.String("file", "", "invoice file to audit (PDF or TXT, required)")
		hint = flag.String("hint", "", "provider hint, forces the named rule set")
		out  = flag.String("out", "", "write the report JSON here instead of stdout")
		xlsx = flag.String("xlsx", "", "also export a findings workbook to this path")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("usage", "cmd", "runaudit -file <invoice.pdf> [-hint <provider>] [-out report.json] [-xlsx findings.xlsx]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.ProcessTimeout)
	defer cancel()

	stores, err := common.InitStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Cleanup()

	ocrClient := ocr.NewClient(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	adapter := extract.NewOCRAdapter(ocrClient)

	registry := provider.NewRegistry(logger)
	extractor := extract.NewExtractor(registry, adapter, adapter, logger,
		extract.WithMinTextTokens(cfg.Pipeline.MinTextTokens))

	engine := audit.NewEngine(stores.Fingerprints, logger)
	if cfg.Audit.Tolerance != "" {
		tol, err := decimal.NewFromString(cfg.Audit.Tolerance)
		if err != nil {
			logger.Error("invalid AUDIT_TOLERANCE", "value", cfg.Audit.Tolerance, "error", err)
			os.Exit(1)
		}
		engine = engine.WithTolerance(tol)
	}

	proc := pipeline.NewProcessor(logger, extractor, engine, stores.Results)

	outcome, err := proc.ProcessFile(ctx, *file, *hint)
	if err != nil {
		logger.Error("audit failed",
			"path", *file,
			"provider", provider.ProviderName(err),
			"extraction_error", provider.IsExtractionError(err),
			"error", err,
		)
		os.Exit(1)
	}

	if *out != "" {
		if err := os.WriteFile(*out, outcome.ReportJSON, 0644); err != nil {
			logger.Error("write report", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *out)
	} else {
		fmt.Println(string(outcome.ReportJSON))
	}

	if *xlsx != "" {
		svc := export.NewService(stores.Results, logger)
		b, err := svc.ExportFindingsXLSX(ctx, outcome.Invoice.InvoiceNumber)
		if err != nil {
			logger.Error("export findings", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsx, b, 0644); err != nil {
			logger.Error("write workbook", "path", *xlsx, "error", err)
			os.Exit(1)
		}
		logger.Info("findings workbook written", "path", *xlsx)
	}
}
