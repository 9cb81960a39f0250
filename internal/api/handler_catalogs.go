package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lakegate/internal/domain"
)

type createCatalogRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

type updateCommentRequest struct {
	Comment *string `json:"comment"`
}

func (h *Handler) createCatalog(w http.ResponseWriter, r *http.Request) {
	var req createCatalogRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.catalogs.Create(r.Context(), domain.CreateCatalogRequest{
		Name: req.Name, Comment: req.Comment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, catalogToAPI(*created))
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Get(r.Context(), chi.URLParam(r, "catalog"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, catalogToAPI(*c))
}

func (h *Handler) listCatalogs(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.catalogs.List(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[catalogResponse]{
		Items:         mapSlice(items, catalogToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) updateCatalog(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	c, err := h.catalogs.Update(r.Context(), chi.URLParam(r, "catalog"),
		domain.UpdateCatalogRequest{Comment: req.Comment})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, catalogToAPI(*c))
}

func (h *Handler) deleteCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogs.Delete(r.Context(), chi.URLParam(r, "catalog")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type createSchemaRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

func (h *Handler) createSchema(w http.ResponseWriter, r *http.Request) {
	var req createSchemaRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.schemas.Create(r.Context(), domain.CreateSchemaRequest{
		CatalogName: chi.URLParam(r, "catalog"),
		Name:        req.Name,
		Comment:     req.Comment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, schemaToAPI(*created))
}

func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	s, err := h.schemas.Get(r.Context(), chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schemaToAPI(*s))
}

func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.schemas.List(r.Context(), chi.URLParam(r, "catalog"), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[schemaResponse]{
		Items:         mapSlice(items, schemaToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) updateSchema(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	s, err := h.schemas.Update(r.Context(), chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"),
		domain.UpdateSchemaRequest{Comment: req.Comment})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schemaToAPI(*s))
}

func (h *Handler) deleteSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.schemas.Delete(r.Context(), chi.URLParam(r, "catalog"), chi.URLParam(r, "schema")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type createTableRequest struct {
	Name      string `json:"name"`
	TableType string `json:"table_type"`
	Comment   string `json:"comment"`
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.tables.Create(r.Context(), domain.CreateTableRequest{
		CatalogName: chi.URLParam(r, "catalog"),
		SchemaName:  chi.URLParam(r, "schema"),
		Name:        req.Name,
		TableType:   req.TableType,
		Comment:     req.Comment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tableToAPI(*created))
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.tables.Get(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), chi.URLParam(r, "table"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tableToAPI(*t))
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.tables.List(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[tableResponse]{
		Items:         mapSlice(items, tableToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	t, err := h.tables.Update(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), chi.URLParam(r, "table"),
		domain.UpdateTableRequest{Comment: req.Comment})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tableToAPI(*t))
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	if err := h.tables.Delete(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), chi.URLParam(r, "table")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type createFunctionRequest struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
	Comment    string `json:"comment"`
}

func (h *Handler) createFunction(w http.ResponseWriter, r *http.Request) {
	var req createFunctionRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.functions.Create(r.Context(), domain.CreateFunctionRequest{
		CatalogName: chi.URLParam(r, "catalog"),
		SchemaName:  chi.URLParam(r, "schema"),
		Name:        req.Name,
		Definition:  req.Definition,
		Comment:     req.Comment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, functionToAPI(*created))
}

func (h *Handler) getFunction(w http.ResponseWriter, r *http.Request) {
	f, err := h.functions.Get(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), chi.URLParam(r, "function"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, functionToAPI(*f))
}

func (h *Handler) listFunctions(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.functions.List(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[functionResponse]{
		Items:         mapSlice(items, functionToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) deleteFunction(w http.ResponseWriter, r *http.Request) {
	if err := h.functions.Delete(r.Context(),
		chi.URLParam(r, "catalog"), chi.URLParam(r, "schema"), chi.URLParam(r, "function")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) getMetastoreSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.metastore.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, metastoreSummaryToAPI(*s))
}
