package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/provider"
)

const questText = `QUEST DIAGNOSTICS
ACME CORP 123456 NDA 9915551234 01/15/2024
Amount Due: $122.50
01/15/2024 100200300 EMP001 DOE, JOHN
DRUG SCREEN 10 PANEL 1234567 $122.50
padding tokens one two three four five six seven eight nine ten
`

type fakeText struct {
	text string
	err  error
}

func (f *fakeText) Extract(_ context.Context, _ string) (TextExtractionResult, error) {
	if f.err != nil {
		return TextExtractionResult{}, f.err
	}
	return TextExtractionResult{Text: f.text, Pages: 1, Method: "pdf-text"}, nil
}

type fakeRecognizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestExtractor(text *fakeText, rec *fakeRecognizer) *Extractor {
	return NewExtractor(provider.NewRegistry(nil), text, rec, nil)
}

func TestRunTextLayerSufficient(t *testing.T) {
	rec := &fakeRecognizer{}
	e := newTestExtractor(&fakeText{text: questText}, rec)

	res, err := e.Run(context.Background(), "inv.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, 0, rec.calls, "strong text layer must not reach OCR")
	assert.False(t, res.UsedOCR)
	assert.Equal(t, constants.Quest, res.Invoice.Provider)
	assert.Equal(t, "9915551234", res.Invoice.InvoiceNumber)
	assert.Equal(t, provider.ConfidenceMatched, res.Confidence)
}

func TestRunEmptyTextLayerDelegatesOnce(t *testing.T) {
	rec := &fakeRecognizer{text: questText}
	e := newTestExtractor(&fakeText{text: ""}, rec)

	res, err := e.Run(context.Background(), "scan.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls, "gate must delegate exactly once")
	assert.True(t, res.UsedOCR)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, "9915551234", res.Invoice.InvoiceNumber)
}

func TestRunGarbledTextLayerTriggersGate(t *testing.T) {
	// Lots of bytes but almost no recognizable tokens.
	garbled := "~~ ## .. -- || ~~ ## .. -- || ~~ ## .. -- ||"
	rec := &fakeRecognizer{text: questText}
	e := newTestExtractor(&fakeText{text: garbled}, rec)

	res, err := e.Run(context.Background(), "scan.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.True(t, res.UsedOCR)
}

func TestRunOCRFailureIsExhausted(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("tesseract missing")}
	e := newTestExtractor(&fakeText{text: ""}, rec)

	_, err := e.Run(context.Background(), "scan.pdf", "")
	var exhausted *provider.ExtractionError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, provider.ReasonOCRExhausted, exhausted.Reason)
	assert.Equal(t, 1, rec.calls)
}

func TestRunExtractionFailureAfterOCRIsExhausted(t *testing.T) {
	// OCR succeeds but yields text no rule set can extract from.
	rec := &fakeRecognizer{text: "QUEST DIAGNOSTICS but nothing else useful here"}
	e := newTestExtractor(&fakeText{text: ""}, rec)

	_, err := e.Run(context.Background(), "scan.pdf", "")
	var exhausted *provider.ExtractionError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, provider.ReasonOCRExhausted, exhausted.Reason)
	assert.Equal(t, constants.Quest, exhausted.Provider)
	assert.Equal(t, 1, rec.calls, "no second OCR attempt after a failed extraction")
}

func TestRunHintForcesProvider(t *testing.T) {
	rec := &fakeRecognizer{}
	e := newTestExtractor(&fakeText{text: questText}, rec)

	res, err := e.Run(context.Background(), "inv.pdf", string(constants.Quest))
	require.NoError(t, err)
	assert.Equal(t, provider.ConfidenceForced, res.Confidence)
}

func TestRunTextLayerErrorFallsBackToOCR(t *testing.T) {
	rec := &fakeRecognizer{text: questText}
	e := newTestExtractor(&fakeText{err: errors.New("pdftotext crashed")}, rec)

	res, err := e.Run(context.Background(), "broken.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.True(t, res.UsedOCR)
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 0, countTokens(""))
	assert.Equal(t, 0, countTokens("~~ ## .."))
	assert.Equal(t, 3, countTokens("one two three"))
	assert.Equal(t, 2, countTokens("a1 -- b2"))
}
