package sections

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// Target locates the elements an editor field paints into.
type Target struct {
	Selector string `json:"selector"`
	// MatchValue limits matches to elements whose text contains the field's
	// current value. Used where a field only shows up as a default.
	MatchValue bool `json:"match_value,omitempty"`
}

func in(kind content.SectionKind, sel string) string {
	return "." + theme.WrapperClass(string(kind)) + " " + sel
}

var highlightTargets = map[string][]Target{
	string(content.FieldBusinessName): {
		{Selector: in(content.KindNavbar, ".navbar-name")},
		{Selector: in(content.KindFooter, ".footer-brand")},
		{Selector: in(content.KindHero, ".hero-headline"), MatchValue: true},
		{Selector: in(content.KindAbout, ".about-headline"), MatchValue: true},
	},
	string(content.FieldTagline): {
		{Selector: in(content.KindHero, ".hero-subheadline"), MatchValue: true},
	},
	string(content.FieldAbout): {
		{Selector: in(content.KindAbout, ".about-description"), MatchValue: true},
	},
	string(content.FieldHeroHeadline):        {{Selector: in(content.KindHero, ".hero-headline")}},
	string(content.FieldHeroSubheadline):     {{Selector: in(content.KindHero, ".hero-subheadline")}},
	string(content.FieldHeroBadge):           {{Selector: in(content.KindHero, ".hero-badge")}},
	string(content.FieldAboutHeadline):       {{Selector: in(content.KindAbout, ".about-headline")}},
	string(content.FieldAboutDescription):    {{Selector: in(content.KindAbout, ".about-description")}},
	string(content.FieldAboutTagline):        {{Selector: in(content.KindAbout, ".about-tagline")}},
	string(content.FieldServicesHeadline):    {{Selector: in(content.KindServices, ".services-headline")}},
	string(content.FieldServicesSubheadline): {{Selector: in(content.KindServices, ".services-subheadline")}},
	string(content.FieldFeaturedHeadline):    {{Selector: in(content.KindFeatured, ".featured-headline")}},
	string(content.FieldFeaturedSubheadline): {{Selector: in(content.KindFeatured, ".featured-subheadline")}},
	string(content.FieldFooterDescription):   {{Selector: in(content.KindFooter, ".footer-description")}},

	"hero_cta":         {{Selector: in(content.KindHero, ".hero-cta")}, {Selector: in(content.KindNavbar, ".navbar-cta")}},
	"hero_testimonial": {{Selector: in(content.KindHero, ".hero-testimonial")}},
	"about_tags":       {{Selector: in(content.KindAbout, ".about-tag")}},
	"navbar_links":     {{Selector: in(content.KindNavbar, ".navbar-link")}},
	"services.items":   {{Selector: in(content.KindServices, ".service-item")}},
	"featured.products": {
		{Selector: in(content.KindFeatured, ".product-item")},
	},
	"footer.social":   {{Selector: in(content.KindFooter, ".social-link")}},
	"contact.phone":   {{Selector: in(content.KindFooter, ".contact-phone")}},
	"contact.email":   {{Selector: in(content.KindFooter, ".contact-email")}},
	"contact.address": {{Selector: in(content.KindFooter, ".contact-address")}},

	string(content.ImageLogo):     {{Selector: in(content.KindNavbar, ".navbar-logo")}},
	string(content.ImageHero):     {{Selector: in(content.KindHero, ".hero-image")}},
	string(content.ImageAbout):    {{Selector: in(content.KindAbout, ".about-image")}},
	string(content.ImageServices): {{Selector: in(content.KindServices, ".services-image")}},
	string(content.ImageFeatured): {{Selector: in(content.KindFeatured, ".featured-image")}},
}

// HighlightTargets returns the targets for an editor field. Section kinds
// and their master flags target the whole wrapper; product image fields
// target product images.
func HighlightTargets(field string) []Target {
	if t, ok := highlightTargets[field]; ok {
		return append([]Target(nil), t...)
	}
	if kind, ok := content.ParseKind(strings.TrimSuffix(field, "_section")); ok {
		return []Target{{Selector: "." + theme.WrapperClass(string(kind))}}
	}
	if strings.HasPrefix(field, "featured.products.") && strings.HasSuffix(field, ".image") {
		return []Target{{Selector: in(content.KindFeatured, ".product-image")}}
	}
	return nil
}

// HighlightFields lists the fields with explicit targets, sorted.
func HighlightFields() []string {
	out := make([]string, 0, len(highlightTargets))
	for f := range highlightTargets {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
