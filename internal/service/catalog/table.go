package catalog

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// TableService manages tables within schemas.
type TableService struct {
	deps
	repo domain.TableRepository
}

// NewTableService creates a TableService.
func NewTableService(repo domain.TableRepository, authorizer *authz.Authorizer, lifecycle *authz.Lifecycle, audit domain.AuditRepository, logger *slog.Logger) *TableService {
	return &TableService{
		deps: deps{authorizer: authorizer, lifecycle: lifecycle, audit: audit, logger: logger},
		repo: repo,
	}
}

func tableParams(catalogName, schemaName, tableName string) map[domain.SecurableType]string {
	p := map[domain.SecurableType]string{
		domain.SecurableCatalog: catalogName,
		domain.SecurableSchema:  QualifiedKey(catalogName, schemaName),
	}
	if tableName != "" {
		p[domain.SecurableTable] = QualifiedKey(catalogName, schemaName, tableName)
	}
	return p
}

// Create creates a table and makes the caller its owner.
func (s *TableService) Create(ctx context.Context, req domain.CreateTableRequest) (*domain.Table, error) {
	decision, err := s.authorizer.Authorize(ctx, OpCreateTable, tableParams(req.CatalogName, req.SchemaName, ""))
	s.auditOutcome(ctx, err, "CREATE_TABLE", domain.SecurableTable, QualifiedKey(req.CatalogName, req.SchemaName, req.Name))
	if err != nil {
		return nil, err
	}

	tableType := req.TableType
	if tableType == "" {
		tableType = "MANAGED"
	}
	created, err := s.repo.Create(ctx, &domain.Table{
		CatalogName: req.CatalogName,
		SchemaName:  req.SchemaName,
		Name:        req.Name,
		TableType:   tableType,
		Comment:     req.Comment,
	})
	if err != nil {
		return nil, err
	}

	ref := domain.Ref(domain.SecurableTable, created.ID)
	if err := s.lifecycle.ResourceCreated(ctx, ref, decision.Principal.ID); err != nil {
		if delErr := s.repo.Delete(ctx, req.CatalogName, req.SchemaName, created.Name); delErr != nil {
			s.logger.Error("rollback of ownerless table failed",
				"table", created.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

// Get returns a table by name within a schema.
func (s *TableService) Get(ctx context.Context, catalogName, schemaName, name string) (*domain.Table, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetTable, tableParams(catalogName, schemaName, name)); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, catalogName, schemaName, name)
}

// List returns the tables of a schema visible to the caller.
func (s *TableService) List(ctx context.Context, catalogName, schemaName string, page domain.PageRequest) ([]domain.Table, string, error) {
	decision, err := s.authorizer.Authorize(ctx, OpListTables, tableParams(catalogName, schemaName, ""))
	if err != nil {
		return nil, "", err
	}

	items, total, err := s.repo.List(ctx, catalogName, schemaName, page)
	if err != nil {
		return nil, "", err
	}
	visible, err := authz.FilterAuthorized(ctx, s.authorizer, OpListTables, decision, items,
		func(t domain.Table) authz.Bindings {
			return authz.Bindings{domain.SecurableTable: t.ID}
		})
	if err != nil {
		return nil, "", err
	}
	return visible, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Update applies the mutable fields to a table.
func (s *TableService) Update(ctx context.Context, catalogName, schemaName, name string, req domain.UpdateTableRequest) (*domain.Table, error) {
	_, err := s.authorizer.Authorize(ctx, OpUpdateTable, tableParams(catalogName, schemaName, name))
	s.auditOutcome(ctx, err, "UPDATE_TABLE", domain.SecurableTable, QualifiedKey(catalogName, schemaName, name))
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, catalogName, schemaName, name, req)
}

// Delete removes a table and revokes every grant on it.
func (s *TableService) Delete(ctx context.Context, catalogName, schemaName, name string) error {
	decision, err := s.authorizer.Authorize(ctx, OpDeleteTable, tableParams(catalogName, schemaName, name))
	s.auditOutcome(ctx, err, "DELETE_TABLE", domain.SecurableTable, QualifiedKey(catalogName, schemaName, name))
	if err != nil {
		return err
	}

	id, ok := decision.Bindings[domain.SecurableTable]
	if !ok {
		t, err := s.repo.GetByName(ctx, catalogName, schemaName, name)
		if err != nil {
			return err
		}
		id = t.ID
	}
	if err := s.repo.Delete(ctx, catalogName, schemaName, name); err != nil {
		return err
	}
	return s.lifecycle.ResourceDeleted(ctx, domain.Ref(domain.SecurableTable, id))
}
