package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

const firstAdvantageSample = `First Advantage Corporation
Invoice: FA-20240115
Billing period: January 2024

Date         Applicant ID   Applicant Name       Description                 Amount
01/05/2024   AB-1001        Doe, John            Criminal History Search     $45.00
01/06/2024   AB-1002        Smith, Jane          Employment Verification     $32.50
Subtotal                                                                     $77.50
Grand Total: $77.50
`

func TestTableLayoutExtract(t *testing.T) {
	rs := NewFirstAdvantage()
	doc := NewDocument(firstAdvantageSample)
	require.True(t, rs.Matches(doc))

	inv, err := rs.Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "FA-20240115", inv.InvoiceNumber)
	assert.Equal(t, constants.FirstAdvantage, inv.Provider)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("77.50")))

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, "AB-1001", inv.LineItems[0].CandidateID)
	assert.Equal(t, "Doe, John", inv.LineItems[0].CandidateName)
	assert.Equal(t, "Criminal History Search", inv.LineItems[0].ServiceDescription)
	assert.True(t, inv.LineItems[0].Cost.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, "AB-1002", inv.LineItems[1].CandidateID)
	assert.True(t, inv.LineItems[1].Cost.Equal(decimal.RequireFromString("32.50")))
}

func TestTableLayoutIgnoresRowsBeforeHeader(t *testing.T) {
	rs := NewLabcorp()
	doc := NewDocument(`Labcorp
Invoice # LC-555
Remit to: 01/01/2024 PO-BOX 12   Somewhere  Else   $999.99
Date         Patient ID   Patient Name     Description        Amount
01/09/2024   P-77         Roe, Richard     Lab Panel          $60.00
Total $60.00
Amount Due: $60.00
`)

	inv, err := rs.Extract(doc)
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "P-77", inv.LineItems[0].CandidateID)
}

func TestTableLayoutMissingTotal(t *testing.T) {
	rs := NewUNAHealth()
	doc := NewDocument(`UNA Health
Invoice: UH-1
Date   Patient ID   Patient Name   Description   Amount
01/01/2024  X1  A, B   Thing   $5.00
`)

	_, err := rs.Extract(doc)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "grand_total", nf.Field)
	assert.Equal(t, constants.UNAHealth, nf.Provider)
}
