package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresArchive mirrors ingested records into Postgres. It is an optional
// sink; the JSON store stays the source of truth for digest publishing.
type PostgresArchive struct {
	db *sql.DB
}

var _ ports.Archive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db}
}

// SaveRecord upserts the record snapshot keyed by its date.
func (r *PostgresArchive) SaveRecord(ctx context.Context, record domain.Record) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("newscast_records").
		Columns("date_key", "headlines", "body").
		Values(record.DateKey, pq.Array(record.Headlines), pq.Array(record.Body)).
		Suffix(`ON CONFLICT (date_key) DO UPDATE
	            SET headlines = EXCLUDED.headlines,
	                body = EXCLUDED.body,
	                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}
