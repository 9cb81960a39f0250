package catalog

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// FunctionService manages functions within schemas.
type FunctionService struct {
	deps
	repo domain.FunctionRepository
}

// NewFunctionService creates a FunctionService.
func NewFunctionService(repo domain.FunctionRepository, authorizer *authz.Authorizer, lifecycle *authz.Lifecycle, audit domain.AuditRepository, logger *slog.Logger) *FunctionService {
	return &FunctionService{
		deps: deps{authorizer: authorizer, lifecycle: lifecycle, audit: audit, logger: logger},
		repo: repo,
	}
}

func functionParams(catalogName, schemaName, functionName string) map[domain.SecurableType]string {
	p := map[domain.SecurableType]string{
		domain.SecurableCatalog: catalogName,
		domain.SecurableSchema:  QualifiedKey(catalogName, schemaName),
	}
	if functionName != "" {
		p[domain.SecurableFunction] = QualifiedKey(catalogName, schemaName, functionName)
	}
	return p
}

// Create creates a function and makes the caller its owner.
func (s *FunctionService) Create(ctx context.Context, req domain.CreateFunctionRequest) (*domain.Function, error) {
	decision, err := s.authorizer.Authorize(ctx, OpCreateFunction, functionParams(req.CatalogName, req.SchemaName, ""))
	s.auditOutcome(ctx, err, "CREATE_FUNCTION", domain.SecurableFunction, QualifiedKey(req.CatalogName, req.SchemaName, req.Name))
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Function{
		CatalogName: req.CatalogName,
		SchemaName:  req.SchemaName,
		Name:        req.Name,
		Definition:  req.Definition,
		Comment:     req.Comment,
	})
	if err != nil {
		return nil, err
	}

	ref := domain.Ref(domain.SecurableFunction, created.ID)
	if err := s.lifecycle.ResourceCreated(ctx, ref, decision.Principal.ID); err != nil {
		if delErr := s.repo.Delete(ctx, req.CatalogName, req.SchemaName, created.Name); delErr != nil {
			s.logger.Error("rollback of ownerless function failed",
				"function", created.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

// Get returns a function by name within a schema.
func (s *FunctionService) Get(ctx context.Context, catalogName, schemaName, name string) (*domain.Function, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetFunction, functionParams(catalogName, schemaName, name)); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, catalogName, schemaName, name)
}

// List returns the functions of a schema visible to the caller.
func (s *FunctionService) List(ctx context.Context, catalogName, schemaName string, page domain.PageRequest) ([]domain.Function, string, error) {
	decision, err := s.authorizer.Authorize(ctx, OpListFunctions, functionParams(catalogName, schemaName, ""))
	if err != nil {
		return nil, "", err
	}

	items, total, err := s.repo.List(ctx, catalogName, schemaName, page)
	if err != nil {
		return nil, "", err
	}
	visible, err := authz.FilterAuthorized(ctx, s.authorizer, OpListFunctions, decision, items,
		func(f domain.Function) authz.Bindings {
			return authz.Bindings{domain.SecurableFunction: f.ID}
		})
	if err != nil {
		return nil, "", err
	}
	return visible, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Delete removes a function and revokes every grant on it.
func (s *FunctionService) Delete(ctx context.Context, catalogName, schemaName, name string) error {
	decision, err := s.authorizer.Authorize(ctx, OpDeleteFunction, functionParams(catalogName, schemaName, name))
	s.auditOutcome(ctx, err, "DELETE_FUNCTION", domain.SecurableFunction, QualifiedKey(catalogName, schemaName, name))
	if err != nil {
		return err
	}

	id, ok := decision.Bindings[domain.SecurableFunction]
	if !ok {
		f, err := s.repo.GetByName(ctx, catalogName, schemaName, name)
		if err != nil {
			return err
		}
		id = f.ID
	}
	if err := s.repo.Delete(ctx, catalogName, schemaName, name); err != nil {
		return err
	}
	return s.lifecycle.ResourceDeleted(ctx, domain.Ref(domain.SecurableFunction, id))
}
