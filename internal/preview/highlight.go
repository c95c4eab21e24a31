package preview

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
)

// Match is one selector of a highlight batch with the number of elements it
// matched in the current document. Text, when set, filters elements by
// their text content.
type Match struct {
	Selector string `json:"selector"`
	Text     string `json:"text,omitempty"`
	Count    int    `json:"count"`
}

// Batch is the set of elements highlighted for one focused field.
type Batch struct {
	Field   string  `json:"field"`
	Targets []Match `json:"targets"`
}

// Total returns the number of highlighted elements.
func (b Batch) Total() int {
	n := 0
	for _, m := range b.Targets {
		n += m.Count
	}
	return n
}

// Highlighter tracks the single active highlight batch.
type Highlighter struct {
	surface *Surface
	hub     *Hub

	mu     sync.Mutex
	active *Batch
}

// NewHighlighter returns a Highlighter over surface. A nil hub keeps the
// batch local.
func NewHighlighter(surface *Surface, hub *Hub) *Highlighter {
	return &Highlighter{surface: surface, hub: hub}
}

// Focus highlights the elements field paints into, replacing any previous
// batch. value is the field's current text, used by targets that only match
// elements showing it. A field without matches clears the highlight.
func (h *Highlighter) Focus(field, value string) (Batch, error) {
	targets := sections.HighlightTargets(field)
	if len(targets) == 0 {
		return Batch{}, ferrors.NotFoundError("no highlight targets for field").
			WithContext("field", field).
			Build()
	}

	doc, _ := h.surface.Document()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return Batch{}, ferrors.WrapError(err, ferrors.CategoryRender, "parse preview document").Build()
	}

	batch := Batch{Field: field}
	for _, t := range targets {
		sel, err := cascadia.Compile(t.Selector)
		if err != nil {
			return Batch{}, ferrors.WrapError(err, ferrors.CategoryInternal, "compile highlight selector").
				WithContext("selector", t.Selector).
				Build()
		}
		m := Match{Selector: t.Selector}
		if t.MatchValue {
			m.Text = strings.TrimSpace(value)
			if m.Text == "" {
				continue
			}
		}
		for _, n := range cascadia.QueryAll(root, sel) {
			if m.Text == "" || strings.Contains(textContent(n), m.Text) {
				m.Count++
			}
		}
		if m.Count > 0 {
			batch.Targets = append(batch.Targets, m)
		}
	}

	if len(batch.Targets) == 0 {
		h.Blur()
		return batch, nil
	}

	h.mu.Lock()
	h.active = &batch
	if h.hub != nil {
		h.hub.Broadcast(Event{Type: EventHighlight, Field: field, Targets: batch.Targets})
	}
	h.mu.Unlock()
	return batch, nil
}

// Blur clears the active highlight.
func (h *Highlighter) Blur() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return
	}
	h.active = nil
	if h.hub != nil {
		h.hub.Broadcast(Event{Type: EventClear})
	}
}

// Active returns the current batch.
func (h *Highlighter) Active() (Batch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return Batch{}, false
	}
	return *h.active, true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
