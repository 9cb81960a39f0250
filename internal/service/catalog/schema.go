package catalog

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// SchemaService manages schemas within catalogs.
type SchemaService struct {
	deps
	repo domain.SchemaRepository
}

// NewSchemaService creates a SchemaService.
func NewSchemaService(repo domain.SchemaRepository, authorizer *authz.Authorizer, lifecycle *authz.Lifecycle, audit domain.AuditRepository, logger *slog.Logger) *SchemaService {
	return &SchemaService{
		deps: deps{authorizer: authorizer, lifecycle: lifecycle, audit: audit, logger: logger},
		repo: repo,
	}
}

func schemaParams(catalogName, schemaName string) map[domain.SecurableType]string {
	p := map[domain.SecurableType]string{
		domain.SecurableCatalog: catalogName,
	}
	if schemaName != "" {
		p[domain.SecurableSchema] = QualifiedKey(catalogName, schemaName)
	}
	return p
}

// Create creates a schema and makes the caller its owner.
func (s *SchemaService) Create(ctx context.Context, req domain.CreateSchemaRequest) (*domain.Schema, error) {
	decision, err := s.authorizer.Authorize(ctx, OpCreateSchema, schemaParams(req.CatalogName, ""))
	s.auditOutcome(ctx, err, "CREATE_SCHEMA", domain.SecurableSchema, QualifiedKey(req.CatalogName, req.Name))
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Schema{
		CatalogName: req.CatalogName,
		Name:        req.Name,
		Comment:     req.Comment,
	})
	if err != nil {
		return nil, err
	}

	ref := domain.Ref(domain.SecurableSchema, created.ID)
	if err := s.lifecycle.ResourceCreated(ctx, ref, decision.Principal.ID); err != nil {
		if delErr := s.repo.Delete(ctx, req.CatalogName, created.Name); delErr != nil {
			s.logger.Error("rollback of ownerless schema failed",
				"catalog", req.CatalogName, "schema", created.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

// Get returns a schema by name within a catalog.
func (s *SchemaService) Get(ctx context.Context, catalogName, name string) (*domain.Schema, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetSchema, schemaParams(catalogName, name)); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, catalogName, name)
}

// List returns the schemas of a catalog visible to the caller.
func (s *SchemaService) List(ctx context.Context, catalogName string, page domain.PageRequest) ([]domain.Schema, string, error) {
	decision, err := s.authorizer.Authorize(ctx, OpListSchemas, schemaParams(catalogName, ""))
	if err != nil {
		return nil, "", err
	}

	items, total, err := s.repo.List(ctx, catalogName, page)
	if err != nil {
		return nil, "", err
	}
	visible, err := authz.FilterAuthorized(ctx, s.authorizer, OpListSchemas, decision, items,
		func(sc domain.Schema) authz.Bindings {
			return authz.Bindings{domain.SecurableSchema: sc.ID}
		})
	if err != nil {
		return nil, "", err
	}
	return visible, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Update applies the mutable fields to a schema.
func (s *SchemaService) Update(ctx context.Context, catalogName, name string, req domain.UpdateSchemaRequest) (*domain.Schema, error) {
	_, err := s.authorizer.Authorize(ctx, OpUpdateSchema, schemaParams(catalogName, name))
	s.auditOutcome(ctx, err, "UPDATE_SCHEMA", domain.SecurableSchema, QualifiedKey(catalogName, name))
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, catalogName, name, req)
}

// Delete removes a schema and revokes every grant on it.
func (s *SchemaService) Delete(ctx context.Context, catalogName, name string) error {
	decision, err := s.authorizer.Authorize(ctx, OpDeleteSchema, schemaParams(catalogName, name))
	s.auditOutcome(ctx, err, "DELETE_SCHEMA", domain.SecurableSchema, QualifiedKey(catalogName, name))
	if err != nil {
		return err
	}

	id, ok := decision.Bindings[domain.SecurableSchema]
	if !ok {
		sc, err := s.repo.GetByName(ctx, catalogName, name)
		if err != nil {
			return err
		}
		id = sc.ID
	}
	if err := s.repo.Delete(ctx, catalogName, name); err != nil {
		return err
	}
	return s.lifecycle.ResourceDeleted(ctx, domain.Ref(domain.SecurableSchema, id))
}
