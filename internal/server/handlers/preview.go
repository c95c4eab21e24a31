package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
	"git.home.luguber.info/inful/sitebuilder/internal/server/responses"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// PreviewHandlers serves the preview document, focus and the style catalog.
type PreviewHandlers struct {
	surface      *preview.Surface
	highlighter  *preview.Highlighter
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewPreviewHandlers creates preview handlers.
func NewPreviewHandlers(surface *preview.Surface, highlighter *preview.Highlighter, logger *slog.Logger) *PreviewHandlers {
	return &PreviewHandlers{
		surface:      surface,
		highlighter:  highlighter,
		errorAdapter: ferrors.NewHTTPErrorAdapter(logger),
	}
}

// HandlePreview serves the current document with the preview script injected.
func (h *PreviewHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	doc, hash := h.surface.Document()
	if hash == "" {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.NewError(ferrors.CategoryRuntime, "preview not composed yet").
			Retryable().
			Build())
		return
	}
	out, err := preview.Inject(doc, hash)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", `"`+hash+`"`)
	_, _ = w.Write([]byte(out))
}

// HandleFocus highlights the elements a field paints into.
func (h *PreviewHandlers) HandleFocus(w http.ResponseWriter, r *http.Request) {
	var req responses.FocusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	batch, err := h.highlighter.Focus(req.Field, req.Value)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, batch)
}

// HandleBlur clears the highlight.
func (h *PreviewHandlers) HandleBlur(w http.ResponseWriter, _ *http.Request) {
	h.highlighter.Blur()
	w.WriteHeader(http.StatusNoContent)
}

// HandleStyles lists the style registry, the schemes, the pairings and the
// visibility flags.
func (h *PreviewHandlers) HandleStyles(w http.ResponseWriter, r *http.Request) {
	resp := responses.StylesResponse{Sections: sections.Catalog(), Flags: content.Flags()}
	for _, p := range theme.Schemes() {
		resp.Schemes = append(resp.Schemes, responses.SchemeInfo{
			ID:        p.ID,
			Label:     p.Label,
			Primary:   p.Primary,
			Secondary: p.Secondary,
			Accent:    p.Accent,
			Dark:      p.Dark,
		})
	}
	for _, p := range theme.Pairings() {
		resp.Pairings = append(resp.Pairings, responses.PairingInfo{
			ID:      p.ID,
			Label:   p.Label,
			Heading: p.Heading,
			Body:    p.Body,
		})
	}
	_ = writeJSONPretty(w, r, http.StatusOK, resp)
}
