package server

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/expedientes/internal/common"
	repo "github.com/joseph-ayodele/expedientes/internal/repository"
)

// ConnectDB opens the configured database, pings it and applies the schema.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repo.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "open database", err)
	}
	if err := repo.HealthCheck(ctx, db, cfg.DialTimeout, logger); err != nil {
		db.Close(logger)
		return nil, common.NewAppError(common.CodeDatabase, "ping database", err)
	}
	if err := repo.Migrate(ctx, db, logger); err != nil {
		db.Close(logger)
		return nil, common.NewAppError(common.CodeDatabase, "migrate database", err)
	}
	return db, nil
}
