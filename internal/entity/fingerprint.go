package entity

import (
	"time"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// Fingerprint is the only durable trace of a billed line item. The lookup
// key is (CandidateID, ServiceDescription); InvoiceReference and Provider
// are payload. Multiple fingerprints may share a key across invoices —
// that is exactly what historical duplication detects.
type Fingerprint struct {
	CandidateID        string                    `json:"candidate_id"`
	ServiceDescription string                    `json:"service_description"`
	InvoiceReference   string                    `json:"invoice_reference"`
	Provider           constants.ProviderVariant `json:"provider"`
	CreatedAt          time.Time                 `json:"created_at"`
}
