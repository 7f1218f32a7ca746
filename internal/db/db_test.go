package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPostgresRequiresDSN(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), "")
	assert.EqualError(t, err, "DATABASE_URL not set")
}

func TestConnectPostgresRejectsBadDSN(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), "postgres://%zz")
	assert.ErrorContains(t, err, "invalid DATABASE_URL")
}

// Skipped unless DATABASE_URL points at a disposable database.
func TestConnectPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	// idempotent
	require.NoError(t, InitSchema(ctx, pool))
}
