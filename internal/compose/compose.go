// Package compose rebuilds a complete HTML document from a content record.
//
// Composition is a pure tree transform: the base document is parsed, all
// dynamic body content from earlier runs is stripped, every configured and
// visible section is rendered fresh and the theme stylesheets are appended
// to the head. Composing a composed document again yields the same bytes.
package compose

import (
	_ "embed"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

//go:embed base.html
var defaultBase string

// DefaultBase returns the built-in base document.
func DefaultBase() string { return defaultBase }

// MarkerAttr tags nodes the composer owns in the document head.
const MarkerAttr = "data-sitebuilder"

// Option configures a Composer.
type Option func(*Composer)

// WithClock sets the time source used for dated defaults.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Composer) { c.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// Composer turns records into documents. It is safe for concurrent use.
type Composer struct {
	now      func() time.Time
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New returns a Composer.
func New(opts ...Option) *Composer {
	c := &Composer{now: time.Now, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose is New().Compose.
func Compose(base string, r content.Record, styles content.StyleSelection, photos []string) (string, error) {
	return New().Compose(base, r, styles, photos)
}

// Compose renders r into base using styles. photos is the shared photo pool;
// values that are not fetchable URLs render as pending slots. An empty base
// uses DefaultBase.
func (c *Composer) Compose(base string, r content.Record, styles content.StyleSelection, photos []string) (string, error) {
	start := time.Now()
	if strings.TrimSpace(base) == "" {
		base = defaultBase
	}
	doc, err := html.Parse(strings.NewReader(base))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "failed to parse base document").Build()
	}
	head := findFirst(doc, atom.Head)
	body := findFirst(doc, atom.Body)
	if head == nil || body == nil {
		return "", ferrors.RenderError("base document has no head or body").Build()
	}

	setTitle(head, r.BusinessName+" - "+r.Tagline)
	removeAll(head, func(n *html.Node) bool { return hasAttr(n, MarkerAttr) })
	removeAll(body, isDynamic)

	main := findFirst(body, atom.Main)
	if main == nil {
		main = element(atom.Main, html.Attribute{Key: "class", Val: "site-main"})
		body.AppendChild(main)
	}

	year := c.now().Year()
	for _, kind := range content.Kinds {
		styleID, ok := styles.StyleFor(kind)
		if !ok || !r.Visibility.IsVisible(content.SectionFlag(kind)) {
			continue
		}
		if !sections.HasStyle(kind, styleID) {
			styleID = sections.DefaultStyle
		}
		frag, err := sections.Dispatch(kind, styleID, propsFor(kind, &r, photos, year))
		if err != nil {
			return "", err
		}
		nodes, err := html.ParseFragment(strings.NewReader(frag), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryRender, "failed to parse section fragment").
				WithContext("section", string(kind)).
				Build()
		}
		insert(kind, nodes, body, main)
		c.recorder.IncSectionRender(string(kind), styleID)
	}

	head.AppendChild(styleNode("theme", theme.SchemeCSS(styles.ColorScheme)))
	if styles.FontPairing != "" {
		head.AppendChild(element(atom.Link,
			html.Attribute{Key: MarkerAttr, Val: "fonts"},
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: theme.FontLinkHref(styles.FontPairing)},
		))
		head.AppendChild(styleNode("fonts", theme.FontCSS(styles.FontPairing)))
	}

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "failed to render document").Build()
	}

	elapsed := time.Since(start)
	c.recorder.ObserveComposeDuration(elapsed)
	c.logger.Debug("Composed document",
		slog.Int("bytes", b.Len()),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return b.String(), nil
}

// insert places a fragment: navbar first in body, footer right after the
// main container, everything else at the end of main.
func insert(kind content.SectionKind, nodes []*html.Node, body, main *html.Node) {
	switch kind {
	case content.KindNavbar:
		first := body.FirstChild
		for _, n := range nodes {
			body.InsertBefore(n, first)
		}
	case content.KindFooter:
		parent, next := main.Parent, main.NextSibling
		for _, n := range nodes {
			parent.InsertBefore(n, next)
		}
	default:
		for _, n := range nodes {
			main.AppendChild(n)
		}
	}
}

var dynamicTags = []atom.Atom{atom.Nav, atom.Header, atom.Footer, atom.Section}

// isDynamic matches body content a previous run may have produced.
func isDynamic(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if slices.Contains(dynamicTags, n.DataAtom) || hasAttr(n, MarkerAttr) {
		return true
	}
	for _, kind := range theme.SectionKinds {
		if hasClass(n, theme.WrapperClass(kind)) {
			return true
		}
	}
	return false
}

// removeAll detaches every descendant of root matching fn. Matched nodes are
// not descended into, so only the outermost match of a subtree is removed.
func removeAll(root *html.Node, fn func(*html.Node) bool) {
	var matched []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if fn(child) {
				matched = append(matched, child)
				continue
			}
			walk(child)
		}
	}
	walk(root)
	for _, n := range matched {
		n.Parent.RemoveChild(n)
	}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, a); found != nil {
			return found
		}
	}
	return nil
}

func setTitle(head *html.Node, title string) {
	t := findFirst(head, atom.Title)
	if t == nil {
		t = element(atom.Title)
		head.AppendChild(t)
	}
	for t.FirstChild != nil {
		t.RemoveChild(t.FirstChild)
	}
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func styleNode(marker, css string) *html.Node {
	n := element(atom.Style, html.Attribute{Key: MarkerAttr, Val: marker})
	n.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return n
}

func hasAttr(n *html.Node, key string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}
