package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// ConnectPostgres opens the pool, waits for the server to answer and makes
// sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			log.WithField("attempt", n+1).WithError(err).Warn("postgres not ready")
		}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	log.Info("connected to postgres")

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return pool, nil
}

// InitSchema creates or updates the database schema.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	// -------------------------------
	// MENU RECORDS
	// -------------------------------
	menuRecordsSQL := `
		CREATE TABLE IF NOT EXISTS menu_records (
			collection VARCHAR(100) NOT NULL,
			doc_id VARCHAR(255) NOT NULL,
			record JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, doc_id)
		)
	`
	if _, err := db.Exec(ctx, menuRecordsSQL); err != nil {
		return err
	}

	indexSQL := `
		CREATE INDEX IF NOT EXISTS menu_records_created_at_idx
		ON menu_records (collection, created_at DESC)
	`
	if _, err := db.Exec(ctx, indexSQL); err != nil {
		return err
	}

	log.Info("schema initialized")
	return nil
}
