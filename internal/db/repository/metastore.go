package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.MetastoreRepository = (*MetastoreRepo)(nil)

// MetastoreRepo reads the singleton metastore record.
type MetastoreRepo struct {
	db *sql.DB
}

// NewMetastoreRepo creates a MetastoreRepo.
func NewMetastoreRepo(db *sql.DB) *MetastoreRepo {
	return &MetastoreRepo{db: db}
}

// Get returns the metastore record. Exactly one row exists after bootstrap.
func (r *MetastoreRepo) Get(ctx context.Context) (*domain.Metastore, error) {
	var m domain.Metastore
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM metastore LIMIT 1`).
		Scan(&m.ID, &m.Name, &m.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &m, nil
}

// Ensure inserts the metastore row if it does not exist yet and returns it.
// Used once at startup.
func (r *MetastoreRepo) Ensure(ctx context.Context, name string) (*domain.Metastore, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO metastore (id, name)
		 SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM metastore)`,
		domain.NewID(), name); err != nil {
		return nil, mapDBError(err)
	}
	return r.Get(ctx)
}
