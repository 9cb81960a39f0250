package catalog

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// CatalogService manages catalogs: the top-level containers under the
// metastore.
//
//nolint:revive // Name chosen for clarity across package boundaries
type CatalogService struct {
	deps
	repo domain.CatalogRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(repo domain.CatalogRepository, authorizer *authz.Authorizer, lifecycle *authz.Lifecycle, audit domain.AuditRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		deps: deps{authorizer: authorizer, lifecycle: lifecycle, audit: audit, logger: logger},
		repo: repo,
	}
}

// Create creates a catalog and makes the caller its owner. If ownership
// assignment fails the catalog row is rolled back: a resource without an
// owner must not exist.
func (s *CatalogService) Create(ctx context.Context, req domain.CreateCatalogRequest) (*domain.Catalog, error) {
	decision, err := s.authorizer.Authorize(ctx, OpCreateCatalog, nil)
	s.auditOutcome(ctx, err, "CREATE_CATALOG", domain.SecurableCatalog, req.Name)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Catalog{Name: req.Name, Comment: req.Comment})
	if err != nil {
		return nil, err
	}

	ref := domain.Ref(domain.SecurableCatalog, created.ID)
	if err := s.lifecycle.ResourceCreated(ctx, ref, decision.Principal.ID); err != nil {
		if delErr := s.repo.Delete(ctx, created.Name); delErr != nil {
			s.logger.Error("rollback of ownerless catalog failed",
				"catalog", created.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

// Get returns a catalog by name. Authorization is evaluated before
// existence: a caller without access gets the same denial whether or not
// the catalog exists.
func (s *CatalogService) Get(ctx context.Context, name string) (*domain.Catalog, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetCatalog, params(domain.SecurableCatalog, name)); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, name)
}

// List returns the catalogs visible to the caller. The gate defers; the
// page is fetched first and then narrowed per entry, so a short page does
// not mean the listing is exhausted.
func (s *CatalogService) List(ctx context.Context, page domain.PageRequest) ([]domain.Catalog, string, error) {
	decision, err := s.authorizer.Authorize(ctx, OpListCatalogs, nil)
	if err != nil {
		return nil, "", err
	}

	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, "", err
	}
	visible, err := authz.FilterAuthorized(ctx, s.authorizer, OpListCatalogs, decision, items,
		func(c domain.Catalog) authz.Bindings {
			return authz.Bindings{domain.SecurableCatalog: c.ID}
		})
	if err != nil {
		return nil, "", err
	}
	return visible, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Update applies the mutable fields to a catalog. Ownership never changes
// on update.
func (s *CatalogService) Update(ctx context.Context, name string, req domain.UpdateCatalogRequest) (*domain.Catalog, error) {
	_, err := s.authorizer.Authorize(ctx, OpUpdateCatalog, params(domain.SecurableCatalog, name))
	s.auditOutcome(ctx, err, "UPDATE_CATALOG", domain.SecurableCatalog, name)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, name, req)
}

// Delete removes a catalog and then revokes every grant on it. Grants must
// never outlive the resource they reference.
func (s *CatalogService) Delete(ctx context.Context, name string) error {
	decision, err := s.authorizer.Authorize(ctx, OpDeleteCatalog, params(domain.SecurableCatalog, name))
	s.auditOutcome(ctx, err, "DELETE_CATALOG", domain.SecurableCatalog, name)
	if err != nil {
		return err
	}

	id, ok := decision.Bindings[domain.SecurableCatalog]
	if !ok {
		// Admin bypass can pass the gate without a binding. Resolve before
		// deleting so the grants can still be purged.
		c, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		id = c.ID
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	return s.lifecycle.ResourceDeleted(ctx, domain.Ref(domain.SecurableCatalog, id))
}

func params(t domain.SecurableType, key string) map[domain.SecurableType]string {
	return map[domain.SecurableType]string{t: key}
}
