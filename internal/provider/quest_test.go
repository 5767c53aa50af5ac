package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

const questSample = `QUEST DIAGNOSTICS
ACME CORP 123456 NDA 9915551234 01/15/2024

Amount Due:
$245.00

01/15/2024 100200300 EMP001 DOE, JOHN
DRUG SCREEN 10 PANEL 1234567 $122.50
01/16/2024 100200301 EMP002 SMITH, JANE
DRUG SCREEN 10 PANEL 1234567 $122.50
PATIENT TOTAL $122.50
`

func TestQuestExtract(t *testing.T) {
	rs := NewQuest()
	doc := NewDocument(questSample)
	require.True(t, rs.Matches(doc))

	inv, err := rs.Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "9915551234", inv.InvoiceNumber)
	assert.Equal(t, constants.Quest, inv.Provider)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("245.00")))

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, "EMP001", inv.LineItems[0].CandidateID)
	assert.Equal(t, "DOE, JOHN", inv.LineItems[0].CandidateName)
	assert.Equal(t, "DRUG SCREEN 10 PANEL", inv.LineItems[0].ServiceDescription)
	assert.True(t, inv.LineItems[0].Cost.Equal(decimal.RequireFromString("122.50")))
	assert.Equal(t, "EMP002", inv.LineItems[1].CandidateID)
}

func TestQuestExtractMissingInvoiceNumber(t *testing.T) {
	rs := NewQuest()
	doc := NewDocument("QUEST DIAGNOSTICS\nAmount Due: $10.00\n")

	_, err := rs.Extract(doc)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "invoice_number", nf.Field)
	assert.Equal(t, constants.Quest, nf.Provider)
}

func TestQuestExtractNoLineItems(t *testing.T) {
	rs := NewQuest()
	doc := NewDocument("QUEST DIAGNOSTICS\n1 NDA 22 01/01/2024\nAmount Due: $10.00\n")

	_, err := rs.Extract(doc)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "line_items", nf.Field)
}
