package common

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/bgv-audit/internal/repository"
)

// Stores bundles the persistence handles a CLI needs plus their cleanup.
type Stores struct {
	Fingerprints repository.FingerprintStore
	Results      repository.ResultStore
	Cleanup      func()
}

// InitStores opens Postgres when DB_URL is set, otherwise the embedded
// sqlite database. Schema is created on first use either way.
func InitStores(ctx context.Context, cfg *Config, logger *slog.Logger) (*Stores, error) {
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, pool, logger); err != nil {
			repository.Close(pool, logger)
			return nil, err
		}
		return &Stores{
			Fingerprints: repository.NewFingerprintStore(pool, logger),
			Results:      repository.NewResultStore(pool, logger),
			Cleanup:      func() { repository.Close(pool, logger) },
		}, nil
	}

	store, err := repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Fingerprints: store,
		Results:      store,
		Cleanup: func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("close sqlite", "error", cerr)
			}
		},
	}, nil
}
