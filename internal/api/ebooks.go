package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"

	"github.com/go-chi/chi/v5"
)

// Multipart form memory ceiling; bigger parts spill to temp files.
const uploadMemoryLimit = 10 << 20

// UploadEbookHandler handles POST /api/v1/admin/ebooks (multipart form)
func (h *Handlers) UploadEbookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			common.RespondError(w, initTime, err, constants.ErrMsgInvalidUpload, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			common.RespondError(w, initTime, err, constants.ErrMsgInvalidUpload, http.StatusBadRequest)
			return
		}
		defer file.Close()

		var genre, proposalID *string
		if v := r.FormValue("genre"); v != "" {
			genre = &v
		}
		if v := r.FormValue("proposal_id"); v != "" {
			proposalID = &v
		}

		var coverName string
		var coverSize int64
		var cover io.Reader
		if coverFile, coverHeader, err := r.FormFile("cover"); err == nil {
			defer coverFile.Close()
			cover = coverFile
			coverName = coverHeader.Filename
			coverSize = coverHeader.Size
		}

		ebook, err := h.deps.Services.Ebooks.Upload(
			r.Context(),
			claims.UserID(),
			r.FormValue("title"),
			r.FormValue("author"),
			genre, proposalID,
			header.Filename, header.Size, file,
			coverName, coverSize, cover,
		)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Livre numérique ajouté", ebook, http.StatusCreated)
	}
}

// ListEbooksHandler handles GET /api/v1/ebooks
func (h *Handlers) ListEbooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		_, isAdmin := viewer(r)
		ebooks, err := h.deps.Services.Ebooks.List(r.Context(), isAdmin)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Bibliothèque récupérée", ebooks)
	}
}

// PresignEbookDownloadHandler handles POST /api/v1/ebooks/{ebook_id}/download-link
func (h *Handlers) PresignEbookDownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		token, err := h.deps.Services.Ebooks.PresignDownload(r.Context(), claims.UserID(), chi.URLParam(r, "ebook_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Lien de téléchargement généré", map[string]any{
			"url":        "/api/v1/ebooks/download?token=" + token,
			"expires_in": int((15 * time.Minute).Seconds()),
		})
	}
}

// DownloadEbookHandler handles GET /api/v1/ebooks/download?token=
// The token is single-use; the link dies on first redemption.
func (h *Handlers) DownloadEbookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		token := r.URL.Query().Get("token")
		if token == "" {
			common.RespondError(w, initTime, nil, constants.ErrMsgDownloadLinkUsed, http.StatusForbidden)
			return
		}

		path, downloadName, err := h.deps.Services.Ebooks.RedeemDownload(r.Context(), token)
		if err != nil {
			common.RespondError(w, initTime, err, constants.ErrMsgDownloadLinkUsed, http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "application/epub+zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
		http.ServeFile(w, r, path)
	}
}

// GetEbookCoverHandler handles GET /api/v1/ebooks/{ebook_id}/cover
func (h *Handlers) GetEbookCoverHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		path, err := h.deps.Services.Ebooks.CoverPath(r.Context(), chi.URLParam(r, "ebook_id"))
		if err != nil {
			common.RespondError(w, initTime, nil, constants.ErrMsgNotFound, http.StatusNotFound)
			return
		}

		http.ServeFile(w, r, path)
	}
}

type ebookVisibilityReq struct {
	IsVisible bool `json:"is_visible"`
}

// SetEbookVisibilityHandler handles PUT /api/v1/admin/ebooks/{ebook_id}/visibility
func (h *Handlers) SetEbookVisibilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req ebookVisibilityReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Ebooks.SetVisibility(r.Context(), chi.URLParam(r, "ebook_id"), req.IsVisible); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Visibilité mise à jour", nil)
	}
}

// DeleteEbookHandler handles DELETE /api/v1/admin/ebooks/{ebook_id}
func (h *Handlers) DeleteEbookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Ebooks.Delete(r.Context(), chi.URLParam(r, "ebook_id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Livre numérique supprimé", nil)
	}
}
