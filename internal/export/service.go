package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/bgv-audit/internal/repository"
)

// Service is a tiny façade over the result store that produces XLSX bytes
// for review exports.
type Service struct {
	results repository.ResultStore
	logger  *slog.Logger
}

func NewService(results repository.ResultStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{results: results, logger: logger}
}

// ExportFindingsXLSX returns an XLSX workbook (as bytes) with one row per
// finding across every stored audit of the given invoice number. Passing
// audits produce a single PASS row so reviewers see them too.
func (s *Service) ExportFindingsXLSX(ctx context.Context, invoiceNumber string) ([]byte, error) {
	start := time.Now()

	results, err := s.results.ListByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query audit results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Findings"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Audited At",
		"Invoice #",
		"Provider",
		"Status",
		"Check",
		"Severity",
		"Line #",
		"Candidate ID",
		"Service",
		"Detail",
		"Prior Invoice",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	rows := 0
	for _, res := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if len(res.Findings) == 0 {
			write(1, res.CreatedAt.Format(time.RFC3339))
			write(2, res.InvoiceNumber)
			write(3, res.Provider.String())
			write(4, string(res.Status))
			write(10, fmt.Sprintf("sum %s matches stated total %s",
				res.ComputedSum.StringFixed(2), res.ExtractedTotal.StringFixed(2)))
			row++
			rows++
			continue
		}

		for _, fi := range res.Findings {
			write(1, res.CreatedAt.Format(time.RFC3339))
			write(2, res.InvoiceNumber)
			write(3, res.Provider.String())
			write(4, string(res.Status))
			write(5, string(fi.Kind))
			write(6, string(fi.Severity))
			if fi.LineItemRef != nil {
				write(7, *fi.LineItemRef+1)
			}
			write(8, fi.Detail.CandidateID)
			write(9, fi.Detail.ServiceDescription)
			write(10, truncate(fi.Detail.Message, 140))
			write(11, fi.Detail.PriorInvoiceRef)
			row++
			rows++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // audited at
	_ = f.SetColWidth(sheet, "B", "C", 18) // invoice, provider
	_ = f.SetColWidth(sheet, "D", "F", 14) // status, check, severity
	_ = f.SetColWidth(sheet, "H", "I", 24) // candidate, service
	_ = f.SetColWidth(sheet, "J", "J", 60) // detail
	_ = f.SetColWidth(sheet, "K", "K", 18) // prior invoice

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"invoice_number", invoiceNumber,
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
