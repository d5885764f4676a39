package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"

	"github.com/go-chi/chi/v5"
)

// SearchBooksHandler handles GET /api/v1/books/search?q=
func (h *Handlers) SearchBooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		query := r.URL.Query().Get("q")
		if query == "" {
			common.RespondError(w, initTime, nil, "Paramètre q requis", http.StatusBadRequest)
			return
		}

		results, err := h.deps.Services.OpenLibrary.SearchBooks(query, queryInt(r, "limit", 10))
		if err != nil {
			h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
			common.RespondError(w, initTime, nil, constants.ErrMsgLookupUnavailable, http.StatusBadGateway)
			return
		}
		h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("ok").Inc()

		common.RespondSuccess(w, initTime, "Recherche effectuée", results)
	}
}

// AutocompleteBooksHandler handles GET /api/v1/books/autocomplete?q=
func (h *Handlers) AutocompleteBooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		prefix := r.URL.Query().Get("q")
		if len(prefix) < 2 {
			common.RespondSuccess(w, initTime, "Recherche effectuée", []any{})
			return
		}

		results, err := h.deps.Services.OpenLibrary.Autocomplete(prefix, queryInt(r, "limit", 5))
		if err != nil {
			h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
			common.RespondError(w, initTime, nil, constants.ErrMsgLookupUnavailable, http.StatusBadGateway)
			return
		}
		h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("ok").Inc()

		common.RespondSuccess(w, initTime, "Recherche effectuée", results)
	}
}

// GetBookByISBNHandler handles GET /api/v1/books/isbn/{isbn}
func (h *Handlers) GetBookByISBNHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		isbn := chi.URLParam(r, "isbn")
		if isbn == "" {
			common.RespondError(w, initTime, nil, "Paramètre isbn requis", http.StatusBadRequest)
			return
		}

		book, err := h.deps.Services.OpenLibrary.GetBookByISBN(isbn)
		if err != nil {
			h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
			common.RespondError(w, initTime, nil, constants.ErrMsgLookupUnavailable, http.StatusBadGateway)
			return
		}
		h.deps.Metrics.MetadataLookupsTotal.WithLabelValues("ok").Inc()

		if book == nil {
			common.RespondError(w, initTime, nil, constants.ErrMsgNotFound, http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Livre trouvé", book)
	}
}
