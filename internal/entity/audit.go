package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// FindingDetail carries the structured explanation for one finding.
// Fields are populated per kind; unused ones stay empty.
type FindingDetail struct {
	Message            string           `json:"message"`
	ComputedSum        *decimal.Decimal `json:"computed_sum,omitempty"`
	ExtractedTotal     *decimal.Decimal `json:"extracted_total,omitempty"`
	Delta              *decimal.Decimal `json:"delta,omitempty"`
	CandidateID        string           `json:"candidate_id,omitempty"`
	ServiceDescription string           `json:"service_description,omitempty"`
	DuplicateOfLine    *int             `json:"duplicate_of_line,omitempty"`
	PriorInvoiceRef    string           `json:"prior_invoice_ref,omitempty"`
}

// AuditFinding is one failed check outcome. Findings are data, not errors.
type AuditFinding struct {
	Kind        constants.FindingKind     `json:"kind"`
	LineItemRef *int                      `json:"line_item_ref,omitempty"` // nil for invoice-level findings
	Detail      FindingDetail             `json:"detail"`
	Severity    constants.FindingSeverity `json:"severity"`
}

// AuditResult is created once per processed invoice and immutable after
// creation. It is never re-derived from stored documents (none are kept).
type AuditResult struct {
	ID             uuid.UUID                 `json:"id"`
	InvoiceNumber  string                    `json:"invoice_number"`
	Provider       constants.ProviderVariant `json:"provider"`
	Status         constants.AuditStatus     `json:"status"`
	Findings       []AuditFinding            `json:"findings"`
	ComputedSum    decimal.Decimal           `json:"computed_sum"`
	ExtractedTotal decimal.Decimal           `json:"extracted_total"`
	CreatedAt      time.Time                 `json:"created_at"`
}
