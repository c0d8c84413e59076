package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo persists the sync journal: one row per order reference recording the
// terminal outcome of its last sync.
type Repo struct {
	pool   *pgxpool.Pool
	tables config.Tables
}

func New(pool *pgxpool.Pool, t config.Tables) *Repo { return &Repo{pool: pool, tables: t} }

func Connect(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		panic(err)
	}
	if err := pool.Ping(ctx); err != nil {
		panic(err)
	}
	return pool
}

func (r *Repo) qt(tbl string) string { return fmt.Sprintf(`"%s"."%s"`, r.tables.Schema, tbl) }

// Record upserts the journal row for a reference. A re-run of a previously
// failed sync overwrites the failure with the new outcome.
func (r *Repo) Record(ctx context.Context, rec *domain.SyncRecord) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (reference, remote_order_id, created, status, error, synced_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (reference) DO UPDATE SET
		  remote_order_id=EXCLUDED.remote_order_id,
		  created=EXCLUDED.created,
		  status=EXCLUDED.status,
		  error=EXCLUDED.error,
		  synced_at=EXCLUDED.synced_at
	`, r.qt(r.tables.Sync)),
		rec.Reference, rec.RemoteOrderID, rec.Created, rec.Status, rec.Error, rec.SyncedAt,
	)
	return err
}

func (r *Repo) GetByReference(ctx context.Context, reference string) (*domain.SyncRecord, error) {
	var rec domain.SyncRecord
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT reference, remote_order_id, created, status, error, synced_at
		FROM %s WHERE reference=$1
	`, r.qt(r.tables.Sync)), reference).Scan(
		&rec.Reference, &rec.RemoteOrderID, &rec.Created, &rec.Status, &rec.Error, &rec.SyncedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repo) RecentReferences(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT reference FROM %s
		ORDER BY synced_at DESC NULLS LAST
		LIMIT $1
	`, r.qt(r.tables.Sync)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
