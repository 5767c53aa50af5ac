package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
	"github.com/joseph-ayodele/bgv-audit/internal/repository"
)

// DefaultTolerance is the absolute allowance for rounding noise between
// the computed line-item sum and the printed grand total. A finding is
// raised only when the delta strictly exceeds it.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Engine runs the three audit checks over an extracted invoice: total
// mismatch, internal duplication, and historical duplication against the
// fingerprint store.
type Engine struct {
	store     repository.FingerprintStore
	tolerance decimal.Decimal
	logger    *slog.Logger
}

func NewEngine(store repository.FingerprintStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, tolerance: DefaultTolerance, logger: logger}
}

// WithTolerance overrides the mismatch allowance. Zero or negative values
// are ignored and keep the default.
func (e *Engine) WithTolerance(t decimal.Decimal) *Engine {
	if t.IsPositive() {
		e.tolerance = t
	}
	return e
}

// Audit runs all checks and appends one fingerprint per line item once
// the checks complete, regardless of their outcome. Store failures are
// infrastructure errors and never become findings.
func (e *Engine) Audit(ctx context.Context, inv *entity.Invoice) (*entity.AuditResult, error) {
	if inv == nil {
		return nil, fmt.Errorf("audit: nil invoice")
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	computed := decimal.Zero
	for _, li := range inv.LineItems {
		computed = computed.Add(li.Cost)
	}

	var findings []entity.AuditFinding
	findings = append(findings, e.checkTotal(inv, computed)...)
	findings = append(findings, e.checkInternalDuplicates(inv)...)

	hist, err := e.checkHistoricalDuplicates(ctx, inv)
	if err != nil {
		return nil, err
	}
	findings = append(findings, hist...)

	fps := make([]entity.Fingerprint, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		fps = append(fps, entity.Fingerprint{
			Provider:           inv.Provider,
			CandidateID:        li.CandidateID,
			ServiceDescription: li.ServiceDescription,
			InvoiceReference:   inv.InvoiceNumber,
		})
	}
	if err := e.store.Add(ctx, fps); err != nil {
		return nil, fmt.Errorf("audit: record fingerprints: %w", err)
	}

	status := constants.AuditStatusPass
	if len(findings) > 0 {
		status = constants.AuditStatusFail
	}

	res := &entity.AuditResult{
		ID:             uuid.New(),
		InvoiceNumber:  inv.InvoiceNumber,
		Provider:       inv.Provider,
		Status:         status,
		Findings:       findings,
		ComputedSum:    computed,
		ExtractedTotal: inv.GrandTotal,
		CreatedAt:      time.Now().UTC(),
	}
	e.logger.Info("audit.completed",
		"invoice_number", inv.InvoiceNumber,
		"provider", inv.Provider.String(),
		"status", string(status),
		"findings", len(findings),
	)
	return res, nil
}

func (e *Engine) checkTotal(inv *entity.Invoice, computed decimal.Decimal) []entity.AuditFinding {
	delta := computed.Sub(inv.GrandTotal).Abs()
	if !delta.GreaterThan(e.tolerance) {
		return nil
	}
	sum := computed
	total := inv.GrandTotal
	d := delta
	return []entity.AuditFinding{{
		Kind:     constants.FindingTotalMismatch,
		Severity: constants.SeverityCritical,
		Detail: entity.FindingDetail{
			Message: fmt.Sprintf("line items sum to %s but invoice states %s (delta %s)",
				sum.StringFixed(2), total.StringFixed(2), d.StringFixed(2)),
			ComputedSum:    &sum,
			ExtractedTotal: &total,
			Delta:          &d,
		},
	}}
}

func (e *Engine) checkInternalDuplicates(inv *entity.Invoice) []entity.AuditFinding {
	firstSeen := make(map[string]int, len(inv.LineItems))
	var findings []entity.AuditFinding
	for i, li := range inv.LineItems {
		key := li.Key()
		first, ok := firstSeen[key]
		if !ok {
			firstSeen[key] = i
			continue
		}
		idx := i
		dup := first
		findings = append(findings, entity.AuditFinding{
			Kind:        constants.FindingInternalDuplicate,
			Severity:    constants.SeverityWarning,
			LineItemRef: &idx,
			Detail: entity.FindingDetail{
				Message: fmt.Sprintf("candidate %s billed twice for %q on this invoice",
					li.CandidateID, li.ServiceDescription),
				CandidateID:        li.CandidateID,
				ServiceDescription: li.ServiceDescription,
				DuplicateOfLine:    &dup,
			},
		})
	}
	return findings
}

func (e *Engine) checkHistoricalDuplicates(ctx context.Context, inv *entity.Invoice) ([]entity.AuditFinding, error) {
	var findings []entity.AuditFinding
	for i, li := range inv.LineItems {
		fp := entity.Fingerprint{
			Provider:           inv.Provider,
			CandidateID:        li.CandidateID,
			ServiceDescription: li.ServiceDescription,
		}
		priorRef, found, err := e.store.FindPrior(ctx, fp, inv.InvoiceNumber)
		if err != nil {
			return nil, fmt.Errorf("audit: fingerprint lookup: %w", err)
		}
		if !found {
			continue
		}
		idx := i
		findings = append(findings, entity.AuditFinding{
			Kind:        constants.FindingHistoricalDuplicate,
			Severity:    constants.SeverityCritical,
			LineItemRef: &idx,
			Detail: entity.FindingDetail{
				Message: fmt.Sprintf("candidate %s already billed for %q on invoice %s",
					li.CandidateID, li.ServiceDescription, priorRef),
				CandidateID:        li.CandidateID,
				ServiceDescription: li.ServiceDescription,
				PriorInvoiceRef:    priorRef,
			},
		})
	}
	return findings, nil
}
