// Package app wires repositories, the authorization engine, and services
// into a ready-to-serve HTTP handler.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lakegate/internal/api"
	"lakegate/internal/authz"
	"lakegate/internal/config"
	"lakegate/internal/db/repository"
	"lakegate/internal/middleware"
	svccatalog "lakegate/internal/service/catalog"
	"lakegate/internal/service/security"
)

// metastoreName is the display name of the singleton metastore, created on
// first start.
const metastoreName = "primary"

// Deps holds the external dependencies main() must provide: database pools,
// config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the API handler needs.
type Services struct {
	Metastore  *svccatalog.MetastoreService
	Catalog    *svccatalog.CatalogService
	Schema     *svccatalog.SchemaService
	Table      *svccatalog.TableService
	Function   *svccatalog.FunctionService
	Principal  *security.PrincipalService
	Group      *security.GroupService
	Grant      *security.GrantService
	Audit      *security.AuditService
	APIKey     *security.APIKeyService
}

// App is the fully wired application.
type App struct {
	Services   Services
	Authorizer *authz.Authorizer
	APIKeyRepo *repository.APIKeyRepo
	Logger     *slog.Logger
	cfg        *config.Config
}

// New wires repositories, the authorization engine, and services. It ensures
// the singleton metastore exists and seeds the bootstrap admin when
// configured.
func New(ctx context.Context, deps Deps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Repositories. Mutating repos use the write pool, lookup-only repos
	// the read pool.
	metastores := repository.NewMetastoreRepo(deps.WriteDB)
	principals := repository.NewPrincipalRepo(deps.WriteDB)
	groups := repository.NewGroupRepo(deps.WriteDB)
	grants := repository.NewGrantRepo(deps.WriteDB)
	catalogs := repository.NewCatalogRepo(deps.WriteDB)
	schemas := repository.NewSchemaRepo(deps.WriteDB)
	tables := repository.NewTableRepo(deps.WriteDB)
	functions := repository.NewFunctionRepo(deps.WriteDB)
	audit := repository.NewAuditRepo(deps.WriteDB)
	apiKeys := repository.NewAPIKeyRepo(deps.WriteDB)
	apiKeyLookup := repository.NewAPIKeyRepo(deps.ReadDB)

	ms, err := metastores.Ensure(ctx, metastoreName)
	if err != nil {
		return nil, fmt.Errorf("ensure metastore: %w", err)
	}

	// Authorization engine. The registry and binder are validated against
	// each other at startup so a missing resolver is a boot failure, not a
	// runtime 500.
	registry := authz.NewRegistry()
	if err := svccatalog.RegisterOperations(registry); err != nil {
		return nil, fmt.Errorf("register catalog operations: %w", err)
	}
	if err := security.RegisterOperations(registry); err != nil {
		return nil, fmt.Errorf("register security operations: %w", err)
	}

	binder := authz.NewBinder(ms.ID)
	if err := svccatalog.RegisterResolvers(binder, svccatalog.Resolvers{
		Catalogs:  catalogs,
		Schemas:   schemas,
		Tables:    tables,
		Functions: functions,
	}); err != nil {
		return nil, fmt.Errorf("register resolvers: %w", err)
	}
	if err := registry.Validate(binder); err != nil {
		return nil, fmt.Errorf("validate operation registry: %w", err)
	}

	evaluator := authz.NewEvaluator(grants, groups)
	authorizer := authz.NewAuthorizer(registry, binder, evaluator, principals, logger.With("component", "authz"))
	lifecycle := authz.NewLifecycle(grants, logger.With("component", "authz"))

	if deps.Cfg != nil && deps.Cfg.Auth.BootstrapAdmin != "" {
		if err := seedBootstrapAdmin(ctx, principals, grants, ms, deps.Cfg.Auth.BootstrapAdmin, logger); err != nil {
			return nil, fmt.Errorf("seed bootstrap admin: %w", err)
		}
	}

	svcs := Services{
		Metastore: svccatalog.NewMetastoreService(metastores, grants, authorizer, audit, logger),
		Catalog:   svccatalog.NewCatalogService(catalogs, authorizer, lifecycle, audit, logger),
		Schema:    svccatalog.NewSchemaService(schemas, authorizer, lifecycle, audit, logger),
		Table:     svccatalog.NewTableService(tables, authorizer, lifecycle, audit, logger),
		Function:  svccatalog.NewFunctionService(functions, authorizer, lifecycle, audit, logger),
		Principal: security.NewPrincipalService(principals, authorizer, audit, logger),
		Group:     security.NewGroupService(groups, principals, authorizer, audit, logger),
		Grant:     security.NewGrantService(grants, principals, groups, authorizer, audit, logger),
		Audit:     security.NewAuditService(audit, authorizer, logger),
		APIKey:    security.NewAPIKeyService(apiKeys, principals, authorizer, audit, logger),
	}

	return &App{
		Services:   svcs,
		Authorizer: authorizer,
		APIKeyRepo: apiKeyLookup,
		Logger:     logger,
		cfg:        deps.Cfg,
	}, nil
}

// Router builds the chi router with the full middleware chain and every API
// route mounted under /v1.
func (a *App) Router(validator middleware.JWTValidator) http.Handler {
	cfg := a.cfg

	handler := api.NewHandler(
		a.Services.Metastore,
		a.Services.Catalog,
		a.Services.Schema,
		a.Services.Table,
		a.Services.Function,
		a.Services.Principal,
		a.Services.Group,
		a.Services.Grant,
		a.Services.Audit,
		a.Services.APIKey,
		a.Logger.With("component", "api"),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(a.Logger.With("component", "http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(validator, a.APIKeyRepo))
		handler.Routes(r)
	})

	return r
}
