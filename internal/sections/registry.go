package sections

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DefaultStyle is the fallback style id of every kind.
const DefaultStyle = content.DefaultStyleID

// Variant is one visual style of a section kind.
type Variant[P Props] struct {
	ID    string
	Label string
	// Fields lists the visibility flags the variant renders. Editor controls
	// for other flags of the kind have no effect on this style.
	Fields []string
	Render func(P) string
}

// Table is the style registry of one section kind.
type Table[P Props] struct {
	kind     content.SectionKind
	variants []Variant[P]
	byID     map[string]int
}

// NewTable builds a table. The first variant must be the default style.
func NewTable[P Props](kind content.SectionKind, variants ...Variant[P]) *Table[P] {
	if len(variants) == 0 || variants[0].ID != DefaultStyle {
		panic(fmt.Sprintf("sections: %s table must start with style %q", kind, DefaultStyle))
	}
	t := &Table[P]{kind: kind, variants: variants, byID: make(map[string]int, len(variants))}
	for i, v := range variants {
		if _, dup := t.byID[v.ID]; dup {
			panic(fmt.Sprintf("sections: duplicate %s style %q", kind, v.ID))
		}
		t.byID[v.ID] = i
	}
	return t
}

// Kind returns the section kind.
func (t *Table[P]) Kind() content.SectionKind { return t.kind }

// Lookup returns the variant for id, falling back to the default style.
func (t *Table[P]) Lookup(id string) Variant[P] {
	if i, ok := t.byID[id]; ok {
		return t.variants[i]
	}
	return t.variants[0]
}

// Has reports whether id is registered.
func (t *Table[P]) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// IDs lists registered style ids in registration order.
func (t *Table[P]) IDs() []string {
	out := make([]string, len(t.variants))
	for i, v := range t.variants {
		out[i] = v.ID
	}
	return out
}

// Render runs the variant for id. A hidden section renders nothing.
func (t *Table[P]) Render(id string, p P) string {
	if !p.Flags().IsVisible(content.SectionFlag(t.kind)) {
		return ""
	}
	return t.Lookup(id).Render(p)
}

func (t *Table[P]) styles() []StyleInfo {
	out := make([]StyleInfo, len(t.variants))
	for i, v := range t.variants {
		out[i] = StyleInfo{ID: v.ID, Label: v.Label, Fields: slices.Clone(v.Fields)}
	}
	return out
}

// Registered tables, one per kind.
var (
	Navbar   = NewTable(content.KindNavbar, navbarVariants...)
	Hero     = NewTable(content.KindHero, heroVariants...)
	About    = NewTable(content.KindAbout, aboutVariants...)
	Services = NewTable(content.KindServices, servicesVariants...)
	Featured = NewTable(content.KindFeatured, featuredVariants...)
	Footer   = NewTable(content.KindFooter, footerVariants...)
)

// Render dispatches props to the variant for styleID of the props' kind.
func Render(styleID string, props Props) string {
	switch p := props.(type) {
	case NavbarProps:
		return Navbar.Render(styleID, p)
	case HeroProps:
		return Hero.Render(styleID, p)
	case AboutProps:
		return About.Render(styleID, p)
	case ServicesProps:
		return Services.Render(styleID, p)
	case FeaturedProps:
		return Featured.Render(styleID, p)
	case FooterProps:
		return Footer.Render(styleID, p)
	}
	return ""
}

// Dispatch renders props for kind. Unknown style ids fall back to the
// default style; props of another kind are an internal error.
func Dispatch(kind content.SectionKind, styleID string, props Props) (string, error) {
	if props == nil || props.Kind() != kind {
		return "", ferrors.InternalError("section props do not match kind").
			WithContext("section", string(kind)).
			Build()
	}
	return Render(styleID, props), nil
}

// StyleInfo describes one registered variant.
type StyleInfo struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}

// KindInfo describes the variants of one kind.
type KindInfo struct {
	Kind   content.SectionKind `json:"kind"`
	Label  string              `json:"label"`
	Styles []StyleInfo         `json:"styles"`
}

// Catalog lists every kind and its variants in document order.
func Catalog() []KindInfo {
	title := cases.Title(language.English)
	out := make([]KindInfo, 0, len(content.Kinds))
	for _, k := range content.Kinds {
		out = append(out, KindInfo{Kind: k, Label: title.String(string(k)), Styles: stylesOf(k)})
	}
	return out
}

func stylesOf(kind content.SectionKind) []StyleInfo {
	switch kind {
	case content.KindNavbar:
		return Navbar.styles()
	case content.KindHero:
		return Hero.styles()
	case content.KindAbout:
		return About.styles()
	case content.KindServices:
		return Services.styles()
	case content.KindFeatured:
		return Featured.styles()
	case content.KindFooter:
		return Footer.styles()
	}
	return nil
}

// HasStyle reports whether kind registers styleID.
func HasStyle(kind content.SectionKind, styleID string) bool {
	for _, s := range stylesOf(kind) {
		if s.ID == styleID {
			return true
		}
	}
	return false
}

// Fields returns the visibility flags rendered by a style, after fallback.
func Fields(kind content.SectionKind, styleID string) []string {
	styles := stylesOf(kind)
	for _, s := range styles {
		if s.ID == styleID {
			return s.Fields
		}
	}
	if len(styles) > 0 {
		return styles[0].Fields
	}
	return nil
}
