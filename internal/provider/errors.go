package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// Extraction failure reasons carried by ExtractionError.
const (
	ReasonOCRExhausted = "ocr_exhausted"
	ReasonNoLineItems  = "no_line_items"
)

// UnknownProviderError means no registered layout matched the document.
type UnknownProviderError struct {
	Hint string // non-empty when a caller-supplied hint failed to resolve
}

func (e *UnknownProviderError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("unknown provider hint %q", e.Hint)
	}
	return "no provider layout matched document"
}

// AmbiguousProviderError means more than one layout matched. The
// registry never picks a winner; the caller must supply a hint.
type AmbiguousProviderError struct {
	Candidates []constants.ProviderVariant
}

func (e *AmbiguousProviderError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = string(c)
	}
	return fmt.Sprintf("document matched multiple provider layouts: %s", strings.Join(names, ", "))
}

// FieldNotFoundError means a required header/line-item/footer field could
// not be located deterministically. Extraction never defaults or guesses.
type FieldNotFoundError struct {
	Field    string
	Provider constants.ProviderVariant
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s: required field %q not found", e.Provider, e.Field)
}

// ExtractionError is the umbrella failure for a provider's extract run.
type ExtractionError struct {
	Provider constants.ProviderVariant
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: extraction failed (%s): %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: extraction failed (%s)", e.Provider, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsExtractionError reports whether err is a user-facing extraction
// failure (wrong/ambiguous template or unextractable fields), as opposed
// to an internal/infrastructure failure.
func IsExtractionError(err error) bool {
	var unknown *UnknownProviderError
	var ambiguous *AmbiguousProviderError
	var notFound *FieldNotFoundError
	var extraction *ExtractionError
	return errors.As(err, &unknown) ||
		errors.As(err, &ambiguous) ||
		errors.As(err, &notFound) ||
		errors.As(err, &extraction)
}

// ProviderName extracts the provider variant from an error chain, when known.
func ProviderName(err error) string {
	var notFound *FieldNotFoundError
	if errors.As(err, &notFound) {
		return string(notFound.Provider)
	}
	var extraction *ExtractionError
	if errors.As(err, &extraction) {
		return string(extraction.Provider)
	}
	return ""
}
