package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// ResultStore persists completed audit results for later review.
type ResultStore interface {
	Save(ctx context.Context, res *entity.AuditResult) error
	ListByInvoice(ctx context.Context, invoiceNumber string) ([]*entity.AuditResult, error)
}

type pgResultStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewResultStore(pool *pgxpool.Pool, logger *slog.Logger) ResultStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &pgResultStore{pool: pool, logger: logger}
}

func (s *pgResultStore) Save(ctx context.Context, res *entity.AuditResult) error {
	findings, err := json.Marshal(res.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}

	const q = `
		INSERT INTO audit_results (id, invoice_number, provider, status, computed_sum, extracted_total, findings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.pool.Exec(ctx, q,
		res.ID,
		res.InvoiceNumber,
		string(res.Provider),
		string(res.Status),
		res.ComputedSum.String(),
		res.ExtractedTotal.String(),
		findings,
		res.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save audit result",
			"invoice_number", res.InvoiceNumber,
			"error", err,
		)
		return err
	}
	return nil
}

func (s *pgResultStore) ListByInvoice(ctx context.Context, invoiceNumber string) ([]*entity.AuditResult, error) {
	const q = `
		SELECT id, invoice_number, provider, status, computed_sum::text, extracted_total::text, findings, created_at
		FROM audit_results
		WHERE invoice_number = $1
		ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q, invoiceNumber)
	if err != nil {
		s.logger.Error("failed to list audit results", "invoice_number", invoiceNumber, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.AuditResult
	for rows.Next() {
		var (
			res       entity.AuditResult
			id        uuid.UUID
			prov      string
			status    string
			sum       string
			total     string
			findings  []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &res.InvoiceNumber, &prov, &status, &sum, &total, &findings, &createdAt); err != nil {
			return nil, err
		}
		res.ID = id
		res.Provider = constants.ProviderVariant(prov)
		res.Status = constants.AuditStatus(status)
		res.CreatedAt = createdAt
		if res.ComputedSum, err = decimal.NewFromString(sum); err != nil {
			return nil, fmt.Errorf("parse computed_sum: %w", err)
		}
		if res.ExtractedTotal, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse extracted_total: %w", err)
		}
		if err := json.Unmarshal(findings, &res.Findings); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
