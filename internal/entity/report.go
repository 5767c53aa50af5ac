package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// ReportSection groups the findings of one kind, in document order.
type ReportSection struct {
	Kind     constants.FindingKind `json:"kind"`
	Findings []AuditFinding        `json:"findings"`
}

// Report is the minimal persisted review structure built from an
// AuditResult. Building it is pure; two builds of the same result are
// byte-identical once serialized.
type Report struct {
	InvoiceNumber  string                    `json:"invoice_number"`
	Provider       constants.ProviderVariant `json:"provider"`
	Status         constants.AuditStatus     `json:"status"`
	ComputedSum    decimal.Decimal           `json:"computed_sum"`
	ExtractedTotal decimal.Decimal           `json:"extracted_total"`
	Sections       []ReportSection           `json:"sections"`
	TotalFindings  int                       `json:"total_findings"`
}
