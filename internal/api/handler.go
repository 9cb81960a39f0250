// Package api provides the HTTP handlers for the lakegate REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"lakegate/internal/domain"
	svccatalog "lakegate/internal/service/catalog"
	"lakegate/internal/service/security"
)

// Handler owns the HTTP surface and delegates to the services.
type Handler struct {
	metastore  *svccatalog.MetastoreService
	catalogs   *svccatalog.CatalogService
	schemas    *svccatalog.SchemaService
	tables     *svccatalog.TableService
	functions  *svccatalog.FunctionService
	principals *security.PrincipalService
	groups     *security.GroupService
	grants     *security.GrantService
	audit      *security.AuditService
	apiKeys    *security.APIKeyService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	metastore *svccatalog.MetastoreService,
	catalogs *svccatalog.CatalogService,
	schemas *svccatalog.SchemaService,
	tables *svccatalog.TableService,
	functions *svccatalog.FunctionService,
	principals *security.PrincipalService,
	groups *security.GroupService,
	grants *security.GrantService,
	audit *security.AuditService,
	apiKeys *security.APIKeyService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		metastore:  metastore,
		catalogs:   catalogs,
		schemas:    schemas,
		tables:     tables,
		functions:  functions,
		principals: principals,
		groups:     groups,
		grants:     grants,
		audit:      audit,
		apiKeys:    apiKeys,
		logger:     logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error", "error", err)
		h.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode parses a JSON request body into v.
func (h *Handler) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pageFromQuery extracts max_results/page_token pagination parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.MaxResults = n
		}
	}
	return p
}
