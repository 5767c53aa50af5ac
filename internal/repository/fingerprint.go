package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// FingerprintStore records which (candidate, service) line items have
// already been billed, keyed by the invoice they appeared on. Provider is
// stored as payload only; the same work re-billed through a different
// provider must still surface as a historical duplicate.
//
// FindPrior looks up the earliest prior occurrence, excluding rows whose
// invoice_reference equals excludeRef so re-auditing an invoice never
// flags it against itself. Add appends unconditionally; the audit engine
// writes fingerprints for every line item after its checks complete,
// regardless of findings.
type FingerprintStore interface {
	FindPrior(ctx context.Context, fp entity.Fingerprint, excludeRef string) (priorRef string, found bool, err error)
	Add(ctx context.Context, fps []entity.Fingerprint) error
}

type pgFingerprintStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFingerprintStore(pool *pgxpool.Pool, logger *slog.Logger) FingerprintStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &pgFingerprintStore{pool: pool, logger: logger}
}

func (s *pgFingerprintStore) FindPrior(ctx context.Context, fp entity.Fingerprint, excludeRef string) (string, bool, error) {
	const q = `
		SELECT invoice_reference
		FROM invoice_fingerprints
		WHERE candidate_id = $1
		  AND service_description = $2
		  AND invoice_reference <> $3
		ORDER BY created_at, id
		LIMIT 1`

	var ref string
	err := s.pool.QueryRow(ctx, q, fp.CandidateID, fp.ServiceDescription, excludeRef).Scan(&ref)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("fingerprint lookup failed",
			"candidate_id", fp.CandidateID,
			"error", err,
		)
		return "", false, err
	}
	return ref, true, nil
}

func (s *pgFingerprintStore) Add(ctx context.Context, fps []entity.Fingerprint) error {
	if len(fps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const q = `
		INSERT INTO invoice_fingerprints (provider, candidate_id, service_description, invoice_reference)
		VALUES ($1, $2, $3, $4)`
	for _, fp := range fps {
		batch.Queue(q, string(fp.Provider), fp.CandidateID, fp.ServiceDescription, fp.InvoiceReference)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer func() {
		if cerr := br.Close(); cerr != nil {
			s.logger.Error("fingerprint batch close failed", "error", cerr)
		}
	}()
	for range fps {
		if _, err := br.Exec(); err != nil {
			s.logger.Error("fingerprint insert failed", "error", err)
			return err
		}
	}
	return nil
}
