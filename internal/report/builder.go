package report

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// sectionOrder fixes the section sequence so that serializing the same
// result twice yields byte-identical output.
var sectionOrder = []constants.FindingKind{
	constants.FindingTotalMismatch,
	constants.FindingInternalDuplicate,
	constants.FindingHistoricalDuplicate,
}

// Build groups an audit result's findings into ordered sections. It is
// pure: no clock, no randomness, no I/O. Kinds with no findings get no
// section.
func Build(res *entity.AuditResult) *entity.Report {
	byKind := make(map[constants.FindingKind][]entity.AuditFinding)
	for _, f := range res.Findings {
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}

	var sections []entity.ReportSection
	for _, kind := range sectionOrder {
		findings := byKind[kind]
		if len(findings) == 0 {
			continue
		}
		sections = append(sections, entity.ReportSection{Kind: kind, Findings: findings})
	}

	return &entity.Report{
		InvoiceNumber:  res.InvoiceNumber,
		Provider:       res.Provider,
		Status:         res.Status,
		ComputedSum:    res.ComputedSum,
		ExtractedTotal: res.ExtractedTotal,
		Sections:       sections,
		TotalFindings:  len(res.Findings),
	}
}

// Encode serializes a report and checks it against the report schema.
func Encode(r *entity.Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}
