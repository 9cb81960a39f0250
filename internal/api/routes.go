package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts every API endpoint onto r. Authentication and other
// middleware are applied by the caller so tests can mount the handler
// behind a stub principal injector.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/metastore", h.getMetastoreSummary)

	r.Route("/catalogs", func(r chi.Router) {
		r.Post("/", h.createCatalog)
		r.Get("/", h.listCatalogs)
		r.Route("/{catalog}", func(r chi.Router) {
			r.Get("/", h.getCatalog)
			r.Patch("/", h.updateCatalog)
			r.Delete("/", h.deleteCatalog)

			r.Route("/schemas", func(r chi.Router) {
				r.Post("/", h.createSchema)
				r.Get("/", h.listSchemas)
				r.Route("/{schema}", func(r chi.Router) {
					r.Get("/", h.getSchema)
					r.Patch("/", h.updateSchema)
					r.Delete("/", h.deleteSchema)

					r.Route("/tables", func(r chi.Router) {
						r.Post("/", h.createTable)
						r.Get("/", h.listTables)
						r.Get("/{table}", h.getTable)
						r.Patch("/{table}", h.updateTable)
						r.Delete("/{table}", h.deleteTable)
					})

					r.Route("/functions", func(r chi.Router) {
						r.Post("/", h.createFunction)
						r.Get("/", h.listFunctions)
						r.Get("/{function}", h.getFunction)
						r.Delete("/{function}", h.deleteFunction)
					})
				})
			})
		})
	})

	r.Route("/principals", func(r chi.Router) {
		r.Post("/", h.createPrincipal)
		r.Get("/", h.listPrincipals)
		r.Get("/me", h.getMe)
		r.Get("/{principal}", h.getPrincipal)
		r.Delete("/{principal}", h.deletePrincipal)
		r.Get("/{principal}/grants", h.listGrantsForPrincipal)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.createGroup)
		r.Get("/", h.listGroups)
		r.Route("/{group}", func(r chi.Router) {
			r.Get("/", h.getGroup)
			r.Delete("/", h.deleteGroup)
			r.Get("/members", h.listGroupMembers)
			r.Post("/members", h.addGroupMember)
			r.Delete("/members", h.removeGroupMember)
		})
	})

	r.Route("/grants", func(r chi.Router) {
		r.Post("/", h.createGrant)
		r.Delete("/", h.revokeGrant)
		r.Get("/", h.listGrantsForSecurable)
	})

	r.Post("/ownership", h.transferOwnership)

	r.Get("/audit", h.listAudit)
	r.Post("/api-keys", h.createAPIKey)
}
