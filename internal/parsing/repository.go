package parsing

import "context"

// Repository stores parsed menu records keyed by collection and document id.
type Repository interface {
	// Save creates or replaces the record.
	Save(ctx context.Context, collection, docID string, rec *Record) error

	Get(ctx context.Context, collection, docID string) (*Record, error)
}
