package constants

// AuditStatus is the canonical overall status for an audit result.
type AuditStatus string

// Stable values (store these exact strings in DB).
const (
	AuditStatusPass AuditStatus = "PASS" // no findings
	AuditStatusFail AuditStatus = "FAIL" // at least one finding
)

// FindingKind classifies a single audit finding.
type FindingKind string

// Stable values (store these exact strings in DB).
const (
	FindingTotalMismatch       FindingKind = "TOTAL_MISMATCH"
	FindingInternalDuplicate   FindingKind = "INTERNAL_DUPLICATE"
	FindingHistoricalDuplicate FindingKind = "HISTORICAL_DUPLICATE"
)

// FindingSeverity grades a finding for reviewers.
type FindingSeverity string

const (
	SeverityWarning  FindingSeverity = "WARNING"
	SeverityCritical FindingSeverity = "CRITICAL"
)
