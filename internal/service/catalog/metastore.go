package catalog

import (
	"context"
	"errors"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// MetastoreService exposes the metastore summary.
type MetastoreService struct {
	deps
	repo   domain.MetastoreRepository
	grants domain.GrantStore
}

// NewMetastoreService creates a MetastoreService.
func NewMetastoreService(repo domain.MetastoreRepository, grants domain.GrantStore, authorizer *authz.Authorizer, audit domain.AuditRepository, logger *slog.Logger) *MetastoreService {
	return &MetastoreService{
		deps:   deps{authorizer: authorizer, audit: audit, logger: logger},
		repo:   repo,
		grants: grants,
	}
}

// MetastoreSummary is the high-level view every authenticated principal
// may read.
type MetastoreSummary struct {
	Metastore domain.Metastore
	Owner     *domain.Owner
}

// Summary returns the metastore record and its owner.
func (s *MetastoreService) Summary(ctx context.Context) (*MetastoreSummary, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetMetastore, nil); err != nil {
		return nil, err
	}
	m, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := s.grants.Owner(ctx, domain.Ref(domain.SecurableMetastore, m.ID))
	if err != nil && !errors.As(err, new(*domain.NotFoundError)) {
		return nil, err
	}
	return &MetastoreSummary{Metastore: *m, Owner: owner}, nil
}
