package security

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// AuditService exposes the audit log.
type AuditService struct {
	deps
	repo domain.AuditRepository
}

// NewAuditService creates an AuditService.
func NewAuditService(repo domain.AuditRepository, authorizer *authz.Authorizer, logger *slog.Logger) *AuditService {
	return &AuditService{
		deps: deps{authorizer: authorizer, audit: repo, logger: logger},
		repo: repo,
	}
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, string, error) {
	if _, err := s.authorizer.Authorize(ctx, OpListAudit, nil); err != nil {
		return nil, "", err
	}
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, "", err
	}
	return items, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}
