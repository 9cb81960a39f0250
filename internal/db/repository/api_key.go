package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.APIKeyRepository = (*APIKeyRepo)(nil)

// APIKeyRepo stores hashed API keys.
type APIKeyRepo struct {
	db *sql.DB
}

// NewAPIKeyRepo creates an APIKeyRepo.
func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

const apiKeyCols = `id, name, principal_name, key_hash, created_at`

func scanAPIKeyRow(scan func(dest ...any) error) (*domain.APIKey, error) {
	var k domain.APIKey
	if err := scan(&k.ID, &k.Name, &k.PrincipalName, &k.KeyHash, &k.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &k, nil
}

// Create inserts an API key record. Only the hash of the raw key is stored.
func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, name, principal_name, key_hash) VALUES (?, ?, ?, ?)`,
		id, k.Name, k.PrincipalName, k.KeyHash); err != nil {
		return nil, mapDBError(err)
	}
	return scanAPIKeyRow(r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyCols+` FROM api_keys WHERE id = ?`, id).Scan)
}

// GetByHash looks up an API key by the hex SHA-256 of the presented key.
func (r *APIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return scanAPIKeyRow(r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyCols+` FROM api_keys WHERE key_hash = ?`, keyHash).Scan)
}
