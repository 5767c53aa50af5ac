package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// SQLiteStore backs local single-user runs with an embedded database.
// It implements both FingerprintStore and ResultStore so the CLI can run
// without a Postgres instance.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc.org/sqlite is not safe for concurrent writers on one conn.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("opened local audit database", "path", path)
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS invoice_fingerprints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			candidate_id TEXT NOT NULL,
			service_description TEXT NOT NULL,
			invoice_reference TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fingerprints_lookup
			ON invoice_fingerprints (candidate_id, service_description)`,
		`CREATE TABLE IF NOT EXISTS audit_results (
			id TEXT PRIMARY KEY,
			invoice_number TEXT NOT NULL,
			provider TEXT NOT NULL,
			status TEXT NOT NULL,
			computed_sum TEXT NOT NULL,
			extracted_total TEXT NOT NULL,
			findings TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_results_invoice
			ON audit_results (invoice_number)`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) FindPrior(ctx context.Context, fp entity.Fingerprint, excludeRef string) (string, bool, error) {
	const q = `
		SELECT invoice_reference
		FROM invoice_fingerprints
		WHERE candidate_id = ? AND service_description = ? AND invoice_reference <> ?
		ORDER BY created_at, id
		LIMIT 1`
	var ref string
	err := s.db.QueryRowContext(ctx, q, fp.CandidateID, fp.ServiceDescription, excludeRef).Scan(&ref)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ref, true, nil
}

func (s *SQLiteStore) Add(ctx context.Context, fps []entity.Fingerprint) error {
	if len(fps) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO invoice_fingerprints (provider, candidate_id, service_description, invoice_reference)
		VALUES (?, ?, ?, ?)`
	for _, fp := range fps {
		if _, err := tx.ExecContext(ctx, q, string(fp.Provider), fp.CandidateID, fp.ServiceDescription, fp.InvoiceReference); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Save(ctx context.Context, res *entity.AuditResult) error {
	findings, err := json.Marshal(res.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}
	const q = `
		INSERT INTO audit_results (id, invoice_number, provider, status, computed_sum, extracted_total, findings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		res.ID.String(),
		res.InvoiceNumber,
		string(res.Provider),
		string(res.Status),
		res.ComputedSum.String(),
		res.ExtractedTotal.String(),
		string(findings),
		res.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) ListByInvoice(ctx context.Context, invoiceNumber string) ([]*entity.AuditResult, error) {
	const q = `
		SELECT id, invoice_number, provider, status, computed_sum, extracted_total, findings, created_at
		FROM audit_results
		WHERE invoice_number = ?
		ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q, invoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.AuditResult
	for rows.Next() {
		var (
			res       entity.AuditResult
			id        string
			prov      string
			status    string
			sum       string
			total     string
			findings  string
			createdAt string
		)
		if err := rows.Scan(&id, &res.InvoiceNumber, &prov, &status, &sum, &total, &findings, &createdAt); err != nil {
			return nil, err
		}
		if res.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse result id: %w", err)
		}
		res.Provider = constants.ProviderVariant(prov)
		res.Status = constants.AuditStatus(status)
		if res.ComputedSum, err = decimal.NewFromString(sum); err != nil {
			return nil, fmt.Errorf("parse computed_sum: %w", err)
		}
		if res.ExtractedTotal, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse extracted_total: %w", err)
		}
		if err := json.Unmarshal([]byte(findings), &res.Findings); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
		if res.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
