package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// LineItem is one billed row extracted from an invoice. Cost is exact
// decimal; floats never enter the model.
type LineItem struct {
	CandidateName      string          `json:"candidate_name"`
	CandidateID        string          `json:"candidate_id"`
	ServiceDescription string          `json:"service_description"`
	Cost               decimal.Decimal `json:"cost"`
}

// Key returns the provider-scoped duplicate-detection key for this item.
func (li LineItem) Key() string {
	return li.CandidateID + "|" + li.ServiceDescription
}

// Invoice is the normalized result of a successful extraction. The
// extractor is the sole writer of its fields; an Invoice that fails
// Validate must never reach the audit engine.
type Invoice struct {
	InvoiceNumber string                    `json:"invoice_number"`
	Provider      constants.ProviderVariant `json:"provider"`
	LineItems     []LineItem                `json:"line_items"` // document order
	GrandTotal    decimal.Decimal           `json:"grand_total"`
}

// Validate enforces the post-extraction invariants.
func (inv *Invoice) Validate() error {
	if inv.InvoiceNumber == "" {
		return fmt.Errorf("invoice: empty invoice number")
	}
	if inv.Provider == "" || inv.Provider == constants.UnknownProvider {
		return fmt.Errorf("invoice %s: missing provider", inv.InvoiceNumber)
	}
	if len(inv.LineItems) == 0 {
		return fmt.Errorf("invoice %s: no line items", inv.InvoiceNumber)
	}
	for i, li := range inv.LineItems {
		if li.CandidateID == "" {
			return fmt.Errorf("invoice %s: line item %d has empty candidate id", inv.InvoiceNumber, i)
		}
	}
	return nil
}
