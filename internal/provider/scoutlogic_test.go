package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

const scoutLogicSample = `ScoutLogic Screening
Invoice #445566

01/10/2024 MARTINEZ, ANA XXX-XX-1234 HR 778899 -
Criminal Record Search $30.00
Education Verification $17.50
01/12/2024 VANDERBILT-WASHINGTON, ALEXANDRIA
XXX-XX-9999 HR 112233
Motor Vehicle Report $12.00
` + "\f" + `Page 2
Total Amount Due: $59.50
`

func TestScoutLogicExtract(t *testing.T) {
	rs := NewScoutLogic()
	doc := NewDocument(scoutLogicSample)
	require.True(t, rs.Matches(doc))

	inv, err := rs.Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "445566", inv.InvoiceNumber)
	assert.Equal(t, constants.ScoutLogic, inv.Provider)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("59.50")))

	require.Len(t, inv.LineItems, 3)
	assert.Equal(t, "778899", inv.LineItems[0].CandidateID)
	assert.Equal(t, "Criminal Record Search", inv.LineItems[0].ServiceDescription)
	assert.True(t, inv.LineItems[0].Cost.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, "778899", inv.LineItems[1].CandidateID)

	// Wrapped candidate header: SSN and file number arrive on the second line.
	assert.Equal(t, "112233", inv.LineItems[2].CandidateID)
	assert.Equal(t, "Motor Vehicle Report", inv.LineItems[2].ServiceDescription)
}

func TestScoutLogicTotalMustBeOnLastPage(t *testing.T) {
	rs := NewScoutLogic()
	doc := NewDocument("ScoutLogic\nInvoice #1\nTotal Amount Due: $5.00\n\fsecond page with no total\n")

	_, err := rs.Extract(doc)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "grand_total", nf.Field)
}
