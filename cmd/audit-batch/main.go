package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/async"
	"github.com/joseph-ayodele/bgv-audit/internal/audit"
	"github.com/joseph-ayodele/bgv-audit/internal/common"
	"github.com/joseph-ayodele/bgv-audit/internal/extract"
	"github.com/joseph-ayodele/bgv-audit/internal/ocr"
	"github.com/joseph-ayodele/bgv-audit/internal/pipeline"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
)

func main() {
	var (
		dir  = flag.String("dir", "", "directory of invoices to audit (required)")
		hint = flag.String("hint", "", "provider hint applied to every file")
		out  = flag.String("out", "", "directory for report JSON files (defaults to the input directory)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "audit-batch -dir <invoices/> [-hint <provider>] [-out reports/]")
		os.Exit(2)
	}
	if *out == "" {
		*out = *dir
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

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
		tol, terr := decimal.NewFromString(cfg.Audit.Tolerance)
		if terr != nil {
			logger.Error("invalid AUDIT_TOLERANCE", "value", cfg.Audit.Tolerance, "error", terr)
			os.Exit(1)
		}
		engine = engine.WithTolerance(tol)
	}

	proc := pipeline.NewProcessor(logger, extractor, engine, stores.Results)

	var processed, failed atomic.Int64
	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
		async.WithOnResult(func(job async.Job, outcome *pipeline.Outcome, err error) {
			if err != nil {
				failed.Add(1)
				return
			}
			processed.Add(1)
			name := strings.TrimSuffix(filepath.Base(job.Path), filepath.Ext(job.Path))
			reportPath := filepath.Join(*out, name+".audit.json")
			if werr := os.WriteFile(reportPath, outcome.ReportJSON, 0644); werr != nil {
				logger.Error("write report", "path", reportPath, "error", werr)
			}
		}),
	)

	matched := 0
	walkErr := filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		matched++
		return queue.Enqueue(ctx, async.Job{
			Path:        path,
			Hint:        *hint,
			SubmittedAt: time.Now().UTC(),
			TraceID:     uuid.NewString(),
		})
	})
	if walkErr != nil {
		logger.Error("walk directory", "dir", *dir, "error", walkErr)
	}

	queue.Shutdown(ctx)

	logger.Info("batch complete",
		"matched", matched,
		"processed", processed.Load(),
		"failed", failed.Load(),
		"reports_dir", *out,
	)
	fmt.Printf("Audited %d of %d invoices (%d failed). Reports in %s\n",
		processed.Load(), int64(matched), failed.Load(), *out)

	if failed.Load() > 0 {
		os.Exit(1)
	}
}
