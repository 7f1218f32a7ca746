package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// SAVE (ONE RECORD PER COLLECTION + DOC ID)
// --------------------------------------------------
func (r *PostgresRepository) Save(ctx context.Context, collection, docID string, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode menu record: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO menu_records (collection, doc_id, record, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET
			record = EXCLUDED.record,
			updated_at = NOW()
	`, collection, docID, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save menu record %s/%s: %w", collection, docID, err)
	}
	return nil
}

// --------------------------------------------------
// GET
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, collection, docID string) (*Record, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `
		SELECT record
		FROM menu_records
		WHERE collection = $1 AND doc_id = $2
	`, collection, docID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode menu record: %w", err)
	}
	return &rec, nil
}
