package security

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// PrincipalService manages users and service principals.
type PrincipalService struct {
	deps
	repo domain.PrincipalRepository
}

// NewPrincipalService creates a PrincipalService.
func NewPrincipalService(repo domain.PrincipalRepository, authorizer *authz.Authorizer, audit domain.AuditRepository, logger *slog.Logger) *PrincipalService {
	return &PrincipalService{
		deps: deps{authorizer: authorizer, audit: audit, logger: logger},
		repo: repo,
	}
}

// CreatePrincipalRequest carries the fields for creating a principal.
type CreatePrincipalRequest struct {
	Name    string
	Type    string // "user" or "service_principal"
	IsAdmin bool
}

// Create registers a new principal.
func (s *PrincipalService) Create(ctx context.Context, req CreatePrincipalRequest) (*domain.Principal, error) {
	_, err := s.authorizer.Authorize(ctx, OpCreatePrincipal, nil)
	s.auditOutcome(ctx, err, "CREATE_PRINCIPAL", "", req.Name)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, domain.ErrValidation("principal name is required")
	}
	typ := req.Type
	if typ == "" {
		typ = "user"
	}
	if typ != "user" && typ != "service_principal" {
		return nil, domain.ErrValidation("principal type must be user or service_principal")
	}
	return s.repo.Create(ctx, &domain.Principal{Name: req.Name, Type: typ, IsAdmin: req.IsAdmin})
}

// Get returns a principal by name.
func (s *PrincipalService) Get(ctx context.Context, name string) (*domain.Principal, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetPrincipal, nil); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, name)
}

// Me returns the caller's own stored principal. No gate beyond
// authentication: every principal may see itself.
func (s *PrincipalService) Me(ctx context.Context) (*domain.Principal, error) {
	cp, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("permission denied")
	}
	return s.repo.GetByName(ctx, cp.Name)
}

// List returns a page of principals.
func (s *PrincipalService) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, string, error) {
	if _, err := s.authorizer.Authorize(ctx, OpListPrincipals, nil); err != nil {
		return nil, "", err
	}
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, "", err
	}
	return items, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Delete removes a principal.
func (s *PrincipalService) Delete(ctx context.Context, name string) error {
	_, err := s.authorizer.Authorize(ctx, OpDeletePrincipal, nil)
	s.auditOutcome(ctx, err, "DELETE_PRINCIPAL", "", name)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, name)
}
