package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d+)?$`,
	}
}

// Schema returns the JSON schema a serialized report must satisfy.
func Schema() map[string]any {
	providerNames := make([]any, 0, len(constants.AllProviders))
	for _, p := range constants.AllProviders {
		providerNames = append(providerNames, string(p))
	}

	finding := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"kind", "detail", "severity"},
		"properties": map[string]any{
			"kind": map[string]any{
				"type": "string",
				"enum": []any{
					string(constants.FindingTotalMismatch),
					string(constants.FindingInternalDuplicate),
					string(constants.FindingHistoricalDuplicate),
				},
			},
			"line_item_ref": map[string]any{"type": "integer", "minimum": 0},
			"severity": map[string]any{
				"type": "string",
				"enum": []any{
					string(constants.SeverityWarning),
					string(constants.SeverityCritical),
				},
			},
			"detail": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"message"},
				"properties": map[string]any{
					"message":             map[string]any{"type": "string", "minLength": 1},
					"computed_sum":        decimalProp(),
					"extracted_total":     decimalProp(),
					"delta":               decimalProp(),
					"candidate_id":        map[string]any{"type": "string"},
					"service_description": map[string]any{"type": "string"},
					"duplicate_of_line":   map[string]any{"type": "integer", "minimum": 0},
					"prior_invoice_ref":   map[string]any{"type": "string"},
				},
			},
		},
	}

	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"invoice_number", "provider", "status",
			"computed_sum", "extracted_total", "sections", "total_findings",
		},
		"properties": map[string]any{
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			"provider":       map[string]any{"type": "string", "enum": providerNames},
			"status": map[string]any{
				"type": "string",
				"enum": []any{
					string(constants.AuditStatusPass),
					string(constants.AuditStatusFail),
				},
			},
			"computed_sum":    decimalProp(),
			"extracted_total": decimalProp(),
			"total_findings":  map[string]any{"type": "integer", "minimum": 0},
			"sections": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"kind", "findings"},
					"properties": map[string]any{
						"kind": map[string]any{"type": "string"},
						"findings": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    finding,
						},
					},
				},
			},
		},
	}
}

// Validate checks serialized report bytes against the report schema.
func Validate(data []byte) error {
	b, err := json.Marshal(Schema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("report.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}
