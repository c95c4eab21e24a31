package storage

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// FilenameHeader optionally carries the original file name of an upload.
const FilenameHeader = "X-Filename"

// UploadTarget is the response of POST /upload-targets.
type UploadTarget struct {
	URL string `json:"url"`
}

// UploadResult is the response of PUT /uploads/{token}.
type UploadResult struct {
	ID string `json:"id"`
}

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	IDs []string `json:"ids"`
}

// ResolveResponse is the response of POST /resolve.
type ResolveResponse struct {
	Resolutions []assets.Resolution `json:"resolutions"`
}

// Handler serves the storage HTTP surface. Mount it under /storage.
type Handler struct {
	svc    *Service
	errors *ferrors.HTTPErrorAdapter
	router chi.Router
}

// NewHandler returns the storage routes for svc.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, errors: ferrors.NewHTTPErrorAdapter(logger), router: chi.NewRouter()}
	h.router.Post("/upload-targets", h.handleUploadTarget)
	h.router.Put("/uploads/{token}", h.handleUpload)
	h.router.Post("/resolve", h.handleResolve)
	h.router.Get("/objects/{id}", h.handleObject)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleUploadTarget(w http.ResponseWriter, r *http.Request) {
	target, err := h.svc.RequestUploadTarget(r.Context())
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadTarget{URL: target})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := h.svc.Limits().MaxBytes
	body := io.Reader(r.Body)
	if limit > 0 {
		// one extra byte lets Check report the overflow
		body = io.LimitReader(r.Body, limit+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		h.errors.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryNetwork, "read upload").Build())
		return
	}

	id, err := h.svc.Accept(r.Context(), chi.URLParam(r, "token"), File{
		Name:        r.Header.Get(FilenameHeader),
		ContentType: r.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResult{ID: id})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryValidation, "malformed resolve request").Build())
		return
	}
	res, err := h.svc.ResolveMany(r.Context(), req.IDs)
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{Resolutions: res})
}

func (h *Handler) handleObject(w http.ResponseWriter, r *http.Request) {
	obj, err := h.svc.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	// ids are content hashes, so the bytes behind a URL never change
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", `"`+obj.ID+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
