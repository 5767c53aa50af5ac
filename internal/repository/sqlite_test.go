package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "audit.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fp(candidate, service, ref string) entity.Fingerprint {
	return entity.Fingerprint{
		Provider:           constants.Quest,
		CandidateID:        candidate,
		ServiceDescription: service,
		InvoiceReference:   ref,
	}
}

func TestSQLiteFindPriorExcludesSameReference(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []entity.Fingerprint{fp("EMP1", "DRUG SCREEN", "INV-1")}))

	// Same invoice re-audited: must not match itself.
	_, found, err := s.FindPrior(ctx, fp("EMP1", "DRUG SCREEN", ""), "INV-1")
	require.NoError(t, err)
	assert.False(t, found)

	// A different invoice does match.
	ref, found, err := s.FindPrior(ctx, fp("EMP1", "DRUG SCREEN", ""), "INV-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "INV-1", ref)
}

func TestSQLiteFindPriorReturnsEarliest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []entity.Fingerprint{fp("EMP1", "DRUG SCREEN", "INV-1")}))
	require.NoError(t, s.Add(ctx, []entity.Fingerprint{fp("EMP1", "DRUG SCREEN", "INV-2")}))

	ref, found, err := s.FindPrior(ctx, fp("EMP1", "DRUG SCREEN", ""), "INV-3")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "INV-1", ref)
}

func TestSQLiteFindPriorMatchesExactKeyOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []entity.Fingerprint{fp("EMP1", "DRUG SCREEN", "INV-1")}))

	_, found, err := s.FindPrior(ctx, fp("EMP1", "PHYSICAL", ""), "INV-2")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.FindPrior(ctx, fp("EMP2", "DRUG SCREEN", ""), "INV-2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteFindPriorIgnoresProvider(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []entity.Fingerprint{fp("EMP1", "DRUG SCREEN", "INV-1")}))

	// Lookup under a different provider still matches; provider is
	// payload, not part of the key.
	lookup := fp("EMP1", "DRUG SCREEN", "")
	lookup.Provider = constants.Concentra
	ref, found, err := s.FindPrior(ctx, lookup, "INV-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "INV-1", ref)
}

func TestSQLiteResultRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	line := 1
	res := &entity.AuditResult{
		ID:            uuid.New(),
		InvoiceNumber: "INV-9",
		Provider:      constants.ScoutLogic,
		Status:        constants.AuditStatusFail,
		Findings: []entity.AuditFinding{{
			Kind:        constants.FindingHistoricalDuplicate,
			LineItemRef: &line,
			Severity:    constants.SeverityCritical,
			Detail: entity.FindingDetail{
				Message:            "already billed",
				CandidateID:        "778899",
				ServiceDescription: "Criminal Record Search",
				PriorInvoiceRef:    "INV-5",
			},
		}},
		ComputedSum:    decimal.RequireFromString("47.50"),
		ExtractedTotal: decimal.RequireFromString("47.50"),
		CreatedAt:      time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(ctx, res))

	got, err := s.ListByInvoice(ctx, "INV-9")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, res.ID, got[0].ID)
	assert.Equal(t, constants.ScoutLogic, got[0].Provider)
	assert.Equal(t, constants.AuditStatusFail, got[0].Status)
	assert.True(t, got[0].ComputedSum.Equal(res.ComputedSum))
	require.Len(t, got[0].Findings, 1)
	assert.Equal(t, "INV-5", got[0].Findings[0].Detail.PriorInvoiceRef)
	require.NotNil(t, got[0].Findings[0].LineItemRef)
	assert.Equal(t, 1, *got[0].Findings[0].LineItemRef)
	assert.True(t, got[0].CreatedAt.Equal(res.CreatedAt))
}

func TestSQLiteListByInvoiceEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.ListByInvoice(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, got)
}
