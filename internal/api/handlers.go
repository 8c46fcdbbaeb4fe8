package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/satservice"
	"github.com/starford/satcat/internal/timecodec"
)

// maxImportBytes caps a posted feed payload.
const maxImportBytes = 50 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *satservice.Service
	now func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(svc *satservice.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// requestTime reads the compact "time" query parameter, defaulting to now.
func (h *Handler) requestTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("time")
	if raw == "" {
		return h.now().UTC(), nil
	}
	return timecodec.ParseCompact(raw)
}

// ListCatalog handles GET /api/catalog.
//
//	@Summary		List catalog entries with optional prefix filter
//	@Tags			catalog
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			q		query		string	false	"Prefix of designator, catalog number or name"
//	@Success		200		{object}	CatalogListResponse
//	@Security		BearerAuth
//	@Router			/catalog [get]
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListCatalog(r.Context(), models.CatalogFilter{
		Query:  q.Get("q"),
		Limit:  min(limit, 1000),
		Offset: offset,
	})
	if err != nil {
		writeError(w, "list catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, CatalogListResponse{Entries: items, Total: total})
}

// GetCatalogEntry handles GET /api/catalog/{norad}.
//
//	@Summary		Get a catalog entry by NORAD catalog number
//	@Tags			catalog
//	@Produce		json
//	@Param			norad	path		string	true	"NORAD catalog number"
//	@Success		200		{object}	CatalogEntry
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/catalog/{norad} [get]
func (h *Handler) GetCatalogEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetCatalogEntry(r.Context(), chi.URLParam(r, "norad"))
	if err != nil {
		writeError(w, "get catalog entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetTleAt handles GET /api/catalog/{norad}/tle.
//
//	@Summary		Get the element set current at a time
//	@Tags			tle
//	@Produce		json
//	@Param			norad	path		string	true	"NORAD catalog number"
//	@Param			time	query		string	false	"YYYYMMDDHHMMSS, UTC (default now)"
//	@Success		200		{object}	TleRecord
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/catalog/{norad}/tle [get]
func (h *Handler) GetTleAt(w http.ResponseWriter, r *http.Request) {
	at, err := h.requestTime(r)
	if err != nil {
		writeError(w, "get tle", err)
		return
	}
	tle, err := h.svc.TleAt(r.Context(), chi.URLParam(r, "norad"), at)
	if err != nil {
		writeError(w, "get tle", err)
		return
	}
	writeJSON(w, http.StatusOK, tle)
}

// GetPosition handles GET /api/catalog/{norad}/position.
//
//	@Summary		Compute the sub-satellite point and speed at a time
//	@Tags			position
//	@Produce		json
//	@Param			norad	path		string	true	"NORAD catalog number"
//	@Param			time	query		string	false	"YYYYMMDDHHMMSS, UTC (default now)"
//	@Success		200		{object}	PositionResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/catalog/{norad}/position [get]
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	at, err := h.requestTime(r)
	if err != nil {
		writeError(w, "compute position", err)
		return
	}
	detail, err := h.svc.GetPositionAt(r.Context(), chi.URLParam(r, "norad"), at)
	if err != nil {
		writeError(w, "compute position", err)
		return
	}
	writeJSON(w, http.StatusOK, newPositionResponse(detail))
}

// GetTle handles GET /api/tle/{id}.
//
//	@Summary		Get a stored element set by id
//	@Tags			tle
//	@Produce		json
//	@Param			id	path		int	true	"TLE id"
//	@Success		200	{object}	TleRecord
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tle/{id} [get]
func (h *Handler) GetTle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	tle, err := h.svc.GetTle(r.Context(), id)
	if err != nil {
		writeError(w, "get tle", err)
		return
	}
	writeJSON(w, http.StatusOK, tle)
}

// ListReferenceCodes handles GET /api/reference/{table}.
//
//	@Summary		List the codes of a reference table
//	@Tags			reference
//	@Produce		json
//	@Param			table	path		string	true	"Reference table"	Enums(operational_status, source, launch_site, orbital_status)
//	@Success		200		{object}	ReferenceListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reference/{table} [get]
func (h *Handler) ListReferenceCodes(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	codes, err := h.svc.ListReferenceCodes(r.Context(), table)
	if err != nil {
		writeError(w, "list reference codes", err)
		return
	}
	writeJSON(w, http.StatusOK, ReferenceListResponse{Table: table, Codes: codes})
}

// Import handles POST /api/import/{kind}.
//
//	@Summary		Ingest a SATCAT or three-line TLE feed posted as plain text
//	@Tags			import
//	@Accept			plain
//	@Produce		json
//	@Param			kind	path		string	true	"Feed kind"	Enums(satcat, tle)
//	@Success		200		{object}	IngestReport
//	@Failure		404		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/{kind} [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != models.FeedSatcat && kind != models.FeedTLE {
		writeJSON(w, http.StatusNotFound, errorBody("unknown feed kind"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	rep, err := h.svc.Import(r.Context(), kind, body)
	if err != nil {
		writeError(w, "import "+kind, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
