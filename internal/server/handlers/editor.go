package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/server/responses"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Session is what the editor API needs from the running site.
type Session interface {
	Controller() *editor.Controller
	Pending() int
}

// EditorHandlers serves /api/record.
type EditorHandlers struct {
	session      Session
	errorAdapter *ferrors.HTTPErrorAdapter
	uploadLimit  int64
}

// NewEditorHandlers creates editor handlers. uploadLimit bounds how much of
// an upload body is read; zero uses the storage default.
func NewEditorHandlers(session Session, uploadLimit int64, logger *slog.Logger) *EditorHandlers {
	if uploadLimit <= 0 {
		uploadLimit = storage.DefaultMaxBytes
	}
	return &EditorHandlers{
		session:      session,
		errorAdapter: ferrors.NewHTTPErrorAdapter(logger),
		uploadLimit:  uploadLimit,
	}
}

// Routes mounts the record endpoints on r.
func (h *EditorHandlers) Routes(r chi.Router) {
	r.Get("/", h.HandleGetRecord)
	r.Patch("/text/{field}", h.handleValue(func(c *editor.Controller, field, v string) error {
		return c.SetText(content.TextField(field), v)
	}))
	r.Patch("/contact/{field}", h.handleValue((*editor.Controller).SetContact))
	r.Patch("/cta/{field}", h.handleValue((*editor.Controller).SetHeroCTA))
	r.Patch("/testimonial/{field}", h.handleValue((*editor.Controller).SetTestimonial))
	r.Post("/visibility/{flag}/toggle", h.HandleToggleVisibility)
	r.Put("/visibility/{flag}", h.HandleSetVisibility)
	r.Put("/styles/{kind}", h.HandleSetStyle)
	r.Put("/theme", h.HandleSetTheme)
	r.Put("/navbar-links", bodyHandler(h, (*editor.Controller).SetNavbarLinks))
	r.Put("/about-tags", bodyHandler(h, (*editor.Controller).SetAboutTags))
	listRoutes(r, h, "/services", (*editor.Controller).AddService, (*editor.Controller).UpdateService, (*editor.Controller).RemoveService)
	listRoutes(r, h, "/products", (*editor.Controller).AddProduct, (*editor.Controller).UpdateProduct, (*editor.Controller).RemoveProduct)
	listRoutes(r, h, "/social", (*editor.Controller).AddSocial, (*editor.Controller).UpdateSocial, (*editor.Controller).RemoveSocial)
	r.Post("/images/{field}", h.HandleUpload)
	r.Delete("/images/{field}/{index}", h.HandleRemoveImage)
	r.Post("/save", h.HandleSave)
	r.Post("/reset", h.HandleReset)
}

// HandleGetRecord returns the current draft.
func (h *EditorHandlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, r, http.StatusOK)
}

func (h *EditorHandlers) writeRecord(w http.ResponseWriter, r *http.Request, status int) {
	c := h.session.Controller()
	snap := c.Snapshot()
	resp := responses.RecordResponse{
		ID:       snap.ID,
		State:    snap.State.String(),
		Revision: snap.Revision,
		Record:   snap.Record,
		Photos:   snap.Photos,
		Pending:  h.session.Pending(),
	}
	for _, f := range snap.Record.ImageFields() {
		if c.Uploading(f) {
			resp.Uploading = append(resp.Uploading, string(f))
		}
	}
	if err := writeJSONPretty(w, r, status, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write record").Build())
	}
}

// respond writes err, or the record when err is nil.
func (h *EditorHandlers) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeRecord(w, r, http.StatusOK)
}

func (h *EditorHandlers) handleValue(set func(c *editor.Controller, field, value string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req responses.ValueRequest
		if err := decodeJSON(r, &req); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		h.respond(w, r, set(h.session.Controller(), chi.URLParam(r, "field"), req.Value))
	}
}

func bodyHandler[T any](h *EditorHandlers, set func(c *editor.Controller, v T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := decodeJSON(r, &v); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		h.respond(w, r, set(h.session.Controller(), v))
	}
}

// listRoutes mounts POST base, PUT base/{index} and DELETE base/{index}.
func listRoutes[T any](r chi.Router, h *EditorHandlers, base string,
	add func(*editor.Controller, T) error,
	update func(*editor.Controller, int, T) error,
	remove func(*editor.Controller, int) error,
) {
	r.Post(base, bodyHandler(h, add))
	r.Put(base+"/{index}", func(w http.ResponseWriter, r *http.Request) {
		i, err := indexParam(r, "index")
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		bodyHandler(h, func(c *editor.Controller, v T) error { return update(c, i, v) })(w, r)
	})
	r.Delete(base+"/{index}", func(w http.ResponseWriter, r *http.Request) {
		i, err := indexParam(r, "index")
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		h.respond(w, r, remove(h.session.Controller(), i))
	})
}

// HandleToggleVisibility flips a visibility flag.
func (h *EditorHandlers) HandleToggleVisibility(w http.ResponseWriter, r *http.Request) {
	flag := chi.URLParam(r, "flag")
	visible, err := h.session.Controller().ToggleVisibility(flag)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.VisibilityResponse{Flag: flag, Visible: visible})
}

// HandleSetVisibility sets a visibility flag explicitly.
func (h *EditorHandlers) HandleSetVisibility(w http.ResponseWriter, r *http.Request) {
	flag := chi.URLParam(r, "flag")
	var req responses.VisibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if err := h.session.Controller().SetVisibility(flag, req.Visible); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.VisibilityResponse{Flag: flag, Visible: req.Visible})
}

// HandleSetStyle selects the style of a section kind.
func (h *EditorHandlers) HandleSetStyle(w http.ResponseWriter, r *http.Request) {
	var req responses.StyleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	kind := content.SectionKind(chi.URLParam(r, "kind"))
	h.respond(w, r, h.session.Controller().SetStyle(kind, req.Style))
}

// HandleSetTheme selects the color scheme and font pairing.
func (h *EditorHandlers) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req responses.ThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	c := h.session.Controller()
	if req.ColorScheme != "" {
		if err := c.SetColorScheme(req.ColorScheme); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
	}
	if req.FontPairing != "" {
		if err := c.SetFontPairing(req.FontPairing); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
	}
	h.writeRecord(w, r, http.StatusOK)
}

// HandleUpload stores an image in a field. The body is either the raw file,
// named by the X-Filename header, or a multipart form with a "file" part.
func (h *EditorHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	field := content.ImageField(chi.URLParam(r, "field"))
	f, err := h.readFile(r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	ref, err := h.session.Controller().Upload(r.Context(), field, f)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, responses.UploadResponse{Field: string(field), Ref: ref})
}

func (h *EditorHandlers) readFile(r *http.Request) (storage.File, error) {
	// one byte over the limit lets the size check reject it
	limit := h.uploadLimit + 1
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(io.LimitReader(r.Body, limit))
		if err != nil {
			return storage.File{}, ferrors.ValidationError("failed to read upload").WithCause(err).Build()
		}
		return storage.File{
			Name:        r.Header.Get(storage.FilenameHeader),
			ContentType: r.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return storage.File{}, ferrors.ValidationError("malformed multipart upload").WithCause(err).Build()
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return storage.File{}, ferrors.ValidationError("upload has no file part").Build()
		}
		if err != nil {
			return storage.File{}, ferrors.ValidationError("malformed multipart upload").WithCause(err).Build()
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, io.LimitReader(part, limit))
		_ = part.Close()
		if err != nil {
			return storage.File{}, ferrors.ValidationError("failed to read upload").WithCause(err).Build()
		}
		return storage.File{
			Name:        part.FileName(),
			ContentType: strings.TrimSpace(part.Header.Get("Content-Type")),
			Data:        buf.Bytes(),
		}, nil
	}
}

// HandleRemoveImage removes one reference from an image field.
func (h *EditorHandlers) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r, "index")
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, h.session.Controller().RemoveImage(content.ImageField(chi.URLParam(r, "field")), i))
}

// HandleSave validates and persists the draft.
func (h *EditorHandlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.session.Controller().Save(r.Context()))
}

// HandleReset discards the draft.
func (h *EditorHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.session.Controller().Reset()
	h.writeRecord(w, r, http.StatusOK)
}
