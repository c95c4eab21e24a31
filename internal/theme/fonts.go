package theme

import (
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
)

// DefaultPairing is used for unknown pairing ids.
const DefaultPairing = "modern"

// FontsBaseURL is the web-font stylesheet endpoint.
const FontsBaseURL = "https://fonts.googleapis.com/css2"

// Pairing couples a heading font with a body font.
type Pairing struct {
	ID              string
	Label           string
	Heading         string
	HeadingFallback string
	Body            string
	BodyFallback    string
}

var pairings = []Pairing{
	{ID: "modern", Label: "Modern", Heading: "Poppins", HeadingFallback: "sans-serif", Body: "Inter", BodyFallback: "sans-serif"},
	{ID: "classic", Label: "Classic", Heading: "Playfair Display", HeadingFallback: "serif", Body: "Source Sans 3", BodyFallback: "sans-serif"},
	{ID: "elegant", Label: "Elegant", Heading: "Cormorant Garamond", HeadingFallback: "serif", Body: "Montserrat", BodyFallback: "sans-serif"},
	{ID: "friendly", Label: "Friendly", Heading: "Nunito", HeadingFallback: "sans-serif", Body: "Open Sans", BodyFallback: "sans-serif"},
	{ID: "technical", Label: "Technical", Heading: "Space Grotesk", HeadingFallback: "sans-serif", Body: "IBM Plex Sans", BodyFallback: "sans-serif"},
}

var pairingIndex = func() *normalization.Normalizer[Pairing] {
	m := make(map[string]Pairing, len(pairings))
	for _, p := range pairings {
		m[p.ID] = p
	}
	return normalization.NewNormalizer(m, DefaultPairing)
}()

// Pairings returns the registered font pairings in display order.
func Pairings() []Pairing {
	out := make([]Pairing, len(pairings))
	copy(out, pairings)
	return out
}

// ResolvePairing returns the pairing for id, falling back to DefaultPairing.
func ResolvePairing(id string) Pairing {
	return pairingIndex.Normalize(id)
}

// FontLinkHref returns the stylesheet URL loading both fonts of a pairing.
func FontLinkHref(id string) string {
	p := ResolvePairing(id)
	families := []string{p.Heading}
	if p.Body != p.Heading {
		families = append(families, p.Body)
	}
	parts := make([]string, 0, len(families)+1)
	for _, f := range families {
		parts = append(parts, "family="+strings.ReplaceAll(url.PathEscape(f), "%20", "+")+":wght@400;500;600;700")
	}
	parts = append(parts, "display=swap")
	return FontsBaseURL + "?" + strings.Join(parts, "&")
}

// FontCSS forces headings to the heading font and all other text to the body font.
func FontCSS(id string) string {
	p := ResolvePairing(id)
	heading := fmt.Sprintf("'%s', %s", p.Heading, p.HeadingFallback)
	body := fmt.Sprintf("'%s', %s", p.Body, p.BodyFallback)

	var b strings.Builder
	fmt.Fprintf(&b, "/* font pairing: %s */\n", p.ID)
	fmt.Fprintf(&b, "h1, h2, h3, h4, h5, h6 { font-family: %s !important; }\n", heading)
	fmt.Fprintf(&b, "body, p, a, li, span, blockquote, button, input, textarea { font-family: %s !important; }\n", body)
	fmt.Fprintf(&b, ".%s, .%s * { font-family: %s !important; }\n", ClassHeading, ClassHeading, heading)
	fmt.Fprintf(&b, ".%s, .%s * { font-family: %s !important; }\n", ClassBody, ClassBody, body)
	return b.String()
}

// CSS returns the scheme stylesheet followed by the font override when a
// pairing is configured.
func CSS(schemeID, pairingID string) string {
	css := SchemeCSS(schemeID)
	if strings.TrimSpace(pairingID) != "" {
		css += FontCSS(pairingID)
	}
	return css
}
