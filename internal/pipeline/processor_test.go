package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/audit"
	"github.com/joseph-ayodele/bgv-audit/internal/common"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
	"github.com/joseph-ayodele/bgv-audit/internal/extract"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
	"github.com/joseph-ayodele/bgv-audit/internal/report"
)

const questText = `QUEST DIAGNOSTICS
ACME CORP 123456 NDA 9915551234 01/15/2024
Amount Due: $122.50
01/15/2024 100200300 EMP001 DOE, JOHN
DRUG SCREEN 10 PANEL 1234567 $122.50
padding tokens one two three four five six seven eight nine ten
`

type fakeText struct{ text string }

func (f *fakeText) Extract(_ context.Context, _ string) (extract.TextExtractionResult, error) {
	return extract.TextExtractionResult{Text: f.text, Pages: 1, Method: "pdf-text"}, nil
}

type fakeRecognizer struct{ calls int }

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) (string, error) {
	f.calls++
	return "", errors.New("should not be reached")
}

type memFingerprints struct{ rows []entity.Fingerprint }

func (m *memFingerprints) FindPrior(_ context.Context, fp entity.Fingerprint, excludeRef string) (string, bool, error) {
	for _, r := range m.rows {
		if r.CandidateID == fp.CandidateID &&
			r.ServiceDescription == fp.ServiceDescription &&
			r.InvoiceReference != excludeRef {
			return r.InvoiceReference, true, nil
		}
	}
	return "", false, nil
}

func (m *memFingerprints) Add(_ context.Context, fps []entity.Fingerprint) error {
	m.rows = append(m.rows, fps...)
	return nil
}

type memResults struct{ saved []*entity.AuditResult }

func (m *memResults) Save(_ context.Context, res *entity.AuditResult) error {
	m.saved = append(m.saved, res)
	return nil
}

func (m *memResults) ListByInvoice(_ context.Context, number string) ([]*entity.AuditResult, error) {
	var out []*entity.AuditResult
	for _, r := range m.saved {
		if r.InvoiceNumber == number {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestProcessFileEndToEnd(t *testing.T) {
	fps := &memFingerprints{}
	results := &memResults{}
	rec := &fakeRecognizer{}

	extractor := extract.NewExtractor(provider.NewRegistry(nil), &fakeText{text: questText}, rec, nil)
	engine := audit.NewEngine(fps, nil)
	proc := NewProcessor(nil, extractor, engine, results)

	out, err := proc.ProcessFile(context.Background(), "invoice.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, 0, rec.calls)
	assert.Equal(t, "9915551234", out.Invoice.InvoiceNumber)
	assert.Equal(t, constants.AuditStatusPass, out.Result.Status)
	assert.Equal(t, out.Invoice.InvoiceNumber, out.Report.InvoiceNumber)
	require.NoError(t, report.Validate(out.ReportJSON))

	require.Len(t, results.saved, 1)
	assert.Len(t, fps.rows, 1)
}

func TestProcessFileHistoricalDuplicateAcrossRuns(t *testing.T) {
	fps := &memFingerprints{}
	results := &memResults{}

	extractor := extract.NewExtractor(provider.NewRegistry(nil), &fakeText{text: questText}, &fakeRecognizer{}, nil)
	engine := audit.NewEngine(fps, nil)
	proc := NewProcessor(nil, extractor, engine, results)

	// Seed history under a different invoice reference.
	fps.rows = append(fps.rows, entity.Fingerprint{
		Provider:           constants.Quest,
		CandidateID:        "EMP001",
		ServiceDescription: "DRUG SCREEN 10 PANEL",
		InvoiceReference:   "INV-OLD",
	})

	out, err := proc.ProcessFile(context.Background(), "invoice.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, constants.AuditStatusFail, out.Result.Status)
	require.Len(t, out.Result.Findings, 1)
	assert.Equal(t, constants.FindingHistoricalDuplicate, out.Result.Findings[0].Kind)
	assert.Equal(t, "INV-OLD", out.Result.Findings[0].Detail.PriorInvoiceRef)
}

func TestProcessFileLogsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	extractor := extract.NewExtractor(provider.NewRegistry(nil), &fakeText{text: questText}, &fakeRecognizer{}, nil)
	engine := audit.NewEngine(&memFingerprints{}, nil)
	proc := NewProcessor(logger, extractor, engine, &memResults{})

	ctx := common.WithRequestID(context.Background(), "trace-abc-1")
	_, err := proc.ProcessFile(ctx, "invoice.pdf", "")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"trace_id":"trace-abc-1"`)
}

func TestProcessFileExtractionErrorSurfaces(t *testing.T) {
	extractor := extract.NewExtractor(provider.NewRegistry(nil),
		&fakeText{text: "twenty tokens of text that match no provider at all " +
			"one two three four five six seven eight nine ten eleven twelve"},
		&fakeRecognizer{}, nil)
	engine := audit.NewEngine(&memFingerprints{}, nil)
	proc := NewProcessor(nil, extractor, engine, &memResults{})

	_, err := proc.ProcessFile(context.Background(), "invoice.pdf", "")
	require.Error(t, err)
	assert.True(t, provider.IsExtractionError(err))
}
