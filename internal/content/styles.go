package content

// SectionKind names one of the six page sections.
type SectionKind string

const (
	KindNavbar   SectionKind = "navbar"
	KindHero     SectionKind = "hero"
	KindAbout    SectionKind = "about"
	KindServices SectionKind = "services"
	KindFeatured SectionKind = "featured"
	KindFooter   SectionKind = "footer"
)

// Kinds lists section kinds in document order.
var Kinds = []SectionKind{KindNavbar, KindHero, KindAbout, KindServices, KindFeatured, KindFooter}

// ParseKind returns the kind named s.
func ParseKind(s string) (SectionKind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// DefaultStyleID is the style every section falls back to.
const DefaultStyleID = "1"

// StyleSelection picks a style per section plus the theme.
// A kind missing from Sections is not configured and is not rendered.
type StyleSelection struct {
	Sections    map[SectionKind]string `json:"sections,omitempty" yaml:"sections,omitempty"`
	ColorScheme string                 `json:"color_scheme,omitempty" yaml:"color_scheme,omitempty"`
	FontPairing string                 `json:"font_pairing,omitempty" yaml:"font_pairing,omitempty"`
}

// DefaultStyles configures every section with style "1", the default scheme
// and the modern font pairing.
func DefaultStyles() StyleSelection {
	s := StyleSelection{
		Sections:    make(map[SectionKind]string, len(Kinds)),
		ColorScheme: "default",
		FontPairing: "modern",
	}
	for _, k := range Kinds {
		s.Sections[k] = DefaultStyleID
	}
	return s
}

// StyleFor returns the configured style id of a kind. An empty configured
// value counts as the default style.
func (s StyleSelection) StyleFor(kind SectionKind) (string, bool) {
	id, ok := s.Sections[kind]
	if !ok {
		return "", false
	}
	if id == "" {
		id = DefaultStyleID
	}
	return id, true
}

// Clone returns an independent copy.
func (s StyleSelection) Clone() StyleSelection {
	out := s
	if s.Sections != nil {
		out.Sections = make(map[SectionKind]string, len(s.Sections))
		for k, v := range s.Sections {
			out.Sections[k] = v
		}
	}
	return out
}
