package theme

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
)

// DefaultScheme is used for empty or unknown scheme ids.
const DefaultScheme = "default"

// Palette is a named color scheme.
type Palette struct {
	ID         string
	Label      string
	Primary    string
	Secondary  string
	Accent     string
	Background string
	Light      string
	// Dark schemes render light text on dark surfaces everywhere.
	Dark bool
}

var palettes = []Palette{
	{ID: "default", Label: "Classic Slate", Primary: "#1f2937", Secondary: "#4b5563", Accent: "#f59e0b", Background: "#ffffff", Light: "#f9fafb"},
	{ID: "ocean", Label: "Ocean", Primary: "#0c4a6e", Secondary: "#0369a1", Accent: "#06b6d4", Background: "#ffffff", Light: "#f0f9ff"},
	{ID: "forest", Label: "Forest", Primary: "#14532d", Secondary: "#3f6212", Accent: "#84cc16", Background: "#ffffff", Light: "#f7fee7"},
	{ID: "sunset", Label: "Sunset", Primary: "#7c2d12", Secondary: "#9a3412", Accent: "#f97316", Background: "#fffaf5", Light: "#fff7ed"},
	{ID: "monochrome", Label: "Monochrome", Primary: "#111111", Secondary: "#525252", Accent: "#737373", Background: "#ffffff", Light: "#f5f5f5"},
	{ID: "dark", Label: "Midnight", Primary: "#1e293b", Secondary: "#94a3b8", Accent: "#38bdf8", Background: "#0b1120", Light: "#e2e8f0", Dark: true},
}

var schemeIndex = func() *normalization.Normalizer[Palette] {
	m := make(map[string]Palette, len(palettes))
	for _, p := range palettes {
		m[p.ID] = p
	}
	return normalization.NewNormalizer(m, DefaultScheme)
}()

// Schemes returns the registered palettes in display order.
func Schemes() []Palette {
	out := make([]Palette, len(palettes))
	copy(out, palettes)
	return out
}

// ResolveScheme returns the palette for id, falling back to DefaultScheme.
func ResolveScheme(id string) Palette {
	return schemeIndex.Normalize(id)
}

// roles are the palette slots generators actually paint with.
type roles struct {
	surface        string
	surfaceAlt     string
	text           string
	muted          string
	inverseSurface string
	inverseText    string
	accent         string
	accentText     string
}

func rolesFor(p Palette) roles {
	r := roles{
		surface:        p.Background,
		surfaceAlt:     p.Light,
		text:           p.Primary,
		muted:          p.Secondary,
		inverseSurface: p.Primary,
		inverseText:    p.Light,
		accent:         p.Accent,
		accentText:     p.Background,
	}
	if p.Dark {
		// Background, not text, is the dark surface in a dark scheme.
		r.surface = p.Background
		r.surfaceAlt = p.Primary
		r.text = p.Light
		r.inverseSurface = p.Background
		r.inverseText = p.Light
		r.accentText = p.Background
	}
	return r
}

// sectionSurface says whether a kind sits on the inverse (dark) surface.
var sectionSurface = map[string]bool{
	"navbar":   false,
	"hero":     true,
	"about":    false,
	"services": false,
	"featured": false,
	"footer":   true,
}

type cssVar struct {
	name  string
	value string
}

func sectionVars(kind string, r roles) []cssVar {
	bg, bgAlt, text, muted := r.surface, r.surfaceAlt, r.text, r.muted
	card := r.surfaceAlt
	if kind == "services" {
		bg, bgAlt, card = r.surfaceAlt, r.surface, r.surface
	}
	if sectionSurface[kind] {
		bg, bgAlt, text, muted = r.inverseSurface, r.surfaceAlt, r.inverseText, r.inverseText
		card = "color-mix(in srgb, " + r.inverseText + " 8%, transparent)"
	}
	p := "--" + kind + "-"
	return []cssVar{
		{p + "bg", bg},
		{p + "bg-alt", bgAlt},
		{p + "text", text},
		{p + "heading", text},
		{p + "muted", muted},
		{p + "accent", r.accent},
		{p + "accent-text", r.accentText},
		{p + "border", "color-mix(in srgb, " + text + " 15%, transparent)"},
		{p + "card-bg", card},
		{p + "link", r.accent},
	}
}

// SchemeCSS returns the stylesheet for a color scheme: palette variables,
// derived per-section variables and the per-style override rules.
func SchemeCSS(id string) string {
	p := ResolveScheme(id)
	r := rolesFor(p)

	var b strings.Builder
	fmt.Fprintf(&b, "/* color scheme: %s */\n", p.ID)
	b.WriteString(":root {\n")
	writeVar(&b, "--color-primary", p.Primary)
	writeVar(&b, "--color-secondary", p.Secondary)
	writeVar(&b, "--color-accent", p.Accent)
	writeVar(&b, "--color-background", p.Background)
	writeVar(&b, "--color-light", p.Light)
	writeVar(&b, "--color-surface", r.surface)
	writeVar(&b, "--color-text", r.text)
	for _, kind := range SectionKinds {
		for _, v := range sectionVars(kind, r) {
			writeVar(&b, v.name, v.value)
		}
	}
	b.WriteString("}\n")
	fmt.Fprintf(&b, "body { background: %s !important; color: %s !important; }\n", r.surface, r.text)
	for _, kind := range SectionKinds {
		fmt.Fprintf(&b, ".%s { background: var(--%s-bg) !important; color: var(--%s-text) !important; }\n",
			WrapperClass(kind), kind, kind)
	}
	fmt.Fprintf(&b, ".%s { background: color-mix(in srgb, %s 12%%, transparent) !important; }\n", ClassPending, r.text)
	writeOverrides(&b)
	return b.String()
}

func writeVar(b *strings.Builder, name, value string) {
	b.WriteString("  ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString(";\n")
}
