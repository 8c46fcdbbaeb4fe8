package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/satcat/internal/satservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *satservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog.
	r.Get("/catalog", h.ListCatalog)
	r.Get("/catalog/{norad}", h.GetCatalogEntry)
	r.Get("/catalog/{norad}/tle", h.GetTleAt)
	r.Get("/catalog/{norad}/position", h.GetPosition)

	// Element sets.
	r.Get("/tle/{id}", h.GetTle)

	// Reference tables.
	r.Get("/reference/{table}", h.ListReferenceCodes)

	// Feed import.
	r.Post("/import/{kind}", h.Import)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
