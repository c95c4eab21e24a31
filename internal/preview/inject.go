package preview

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitebuilder/internal/compose"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

const (
	// EventsPath is where the served preview connects for events.
	EventsPath = "/preview/events"

	// HighlightClass is the outline class the preview script toggles.
	HighlightClass = "sitebuilder-highlight"

	hashAttr = "data-sitebuilder-hash"
)

// Script reloads the page when the document hash changes and applies or
// removes highlight batches.
const Script = `(() => {
  if (window.__SITEBUILDER_PREVIEW__) return;
  window.__SITEBUILDER_PREVIEW__ = true;
  const cls = '` + HighlightClass + `';
  let current = document.documentElement.getAttribute('` + hashAttr + `');
  function clear() {
    document.querySelectorAll('.' + cls).forEach((el) => el.classList.remove(cls));
  }
  function apply(targets) {
    clear();
    (targets || []).forEach((t) => {
      document.querySelectorAll(t.selector).forEach((el) => {
        if (t.text && !el.textContent.includes(t.text)) return;
        el.classList.add(cls);
      });
    });
  }
  function connect() {
    const es = new EventSource('` + EventsPath + `');
    es.onmessage = (e) => {
      let ev;
      try { ev = JSON.parse(e.data); } catch (_) { return; }
      if (ev.type === 'reload') {
        if (!current) { current = ev.hash; return; }
        if (ev.hash !== current) location.reload();
      } else if (ev.type === 'highlight') {
        apply(ev.targets);
      } else if (ev.type === 'clear') {
        clear();
      }
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`

const highlightCSS = `.` + HighlightClass + ` { outline: 2px solid #2563eb !important; outline-offset: 2px !important; }`

// Inject returns doc with the preview script, the highlight stylesheet and
// the document hash added. The added nodes carry the composer marker, so
// composing an injected document drops them again.
func Inject(doc, hash string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "parse preview document").Build()
	}

	var htmlEl, head, body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Html:
				htmlEl = n
			case atom.Head:
				head = n
			case atom.Body:
				body = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	if htmlEl == nil || head == nil || body == nil {
		return "", ferrors.RenderError("preview document has no html, head or body").Build()
	}

	if hash != "" {
		htmlEl.Attr = append(htmlEl.Attr, html.Attribute{Key: hashAttr, Val: hash})
	}
	head.AppendChild(markedElement(atom.Style, highlightCSS))
	body.AppendChild(markedElement(atom.Script, Script))

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render preview document").Build()
	}
	return buf.String(), nil
}

func markedElement(a atom.Atom, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: compose.MarkerAttr, Val: "preview"}},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
