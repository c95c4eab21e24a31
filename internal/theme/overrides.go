package theme

import (
	"fmt"
	"sort"
	"strings"
)

// rule binds a selector inside a section-style root to declarations. Every
// declaration is emitted with !important so a generator's scoped <style>
// cannot win over the active palette.
type rule struct {
	selector string
	decls    []string
}

// overrides is keyed by section kind, then style id. A style variant that
// ships without an entry here inherits only the wrapper rule from SchemeCSS.
var overrides = map[string]map[string][]rule{
	"navbar": {
		"1": {
			{".navbar-brand", []string{"color: var(--navbar-heading)"}},
			{".navbar-link", []string{"color: var(--navbar-text)"}},
			{".navbar-link:hover", []string{"color: var(--navbar-accent)"}},
		},
		"2": {
			{"", []string{"border-bottom: 1px solid var(--navbar-border)"}},
			{".navbar-link", []string{"color: var(--navbar-muted)"}},
			{".navbar-cta", []string{"background: var(--navbar-accent)", "color: var(--navbar-accent-text)"}},
		},
		"3": {
			{".navbar-brand", []string{"color: var(--navbar-accent)"}},
			{".navbar-link", []string{"color: var(--navbar-text)"}},
			{".navbar-toggle", []string{"color: var(--navbar-text)", "border-color: var(--navbar-border)"}},
			{".navbar-links.is-open", []string{"background: var(--navbar-bg)"}},
		},
	},
	"hero": {
		"1": {
			{".hero-headline", []string{"color: var(--hero-heading)"}},
			{".hero-subheadline", []string{"color: var(--hero-muted)"}},
			{".hero-cta", []string{"background: var(--hero-accent)", "color: var(--hero-accent-text)"}},
		},
		"2": {
			{".hero-badge", []string{"background: var(--hero-card-bg)", "color: var(--hero-accent)"}},
			{".hero-headline", []string{"color: var(--hero-heading)"}},
			{".hero-cta", []string{"background: var(--hero-accent)", "color: var(--hero-accent-text)"}},
			{".hero-testimonial", []string{"background: var(--hero-card-bg)", "border-color: var(--hero-border)"}},
		},
		"3": {
			{".hero-headline", []string{"color: var(--hero-heading)"}},
			{".hero-cta", []string{"border-color: var(--hero-accent)", "color: var(--hero-accent)"}},
			{".hero-cta:hover", []string{"background: var(--hero-accent)", "color: var(--hero-accent-text)"}},
			{".hero-tile", []string{"border-color: var(--hero-border)"}},
		},
	},
	"about": {
		"1": {
			{".about-tagline", []string{"color: var(--about-accent)"}},
			{".about-headline", []string{"color: var(--about-heading)"}},
			{".about-description", []string{"color: var(--about-muted)"}},
		},
		"2": {
			{".about-headline", []string{"color: var(--about-heading)"}},
			{".about-tag", []string{"background: var(--about-card-bg)", "color: var(--about-text)", "border-color: var(--about-border)"}},
		},
		"3": {
			{".about-headline", []string{"color: var(--about-heading)"}},
			{".about-panel", []string{"background: var(--about-card-bg)", "border-color: var(--about-border)"}},
			{".about-tagline", []string{"color: var(--about-accent)"}},
		},
	},
	"services": {
		"1": {
			{".services-headline", []string{"color: var(--services-heading)"}},
			{".service-card", []string{"background: var(--services-card-bg)", "border-color: var(--services-border)"}},
			{".service-name", []string{"color: var(--services-accent)"}},
		},
		"2": {
			{".services-headline", []string{"color: var(--services-heading)"}},
			{".service-index", []string{"color: var(--services-accent)"}},
			{".service-row", []string{"border-color: var(--services-border)"}},
		},
		"3": {
			{".services-headline", []string{"color: var(--services-heading)"}},
			{".service-toggle", []string{"color: var(--services-text)", "border-color: var(--services-border)"}},
			{".service-item.is-open .service-toggle", []string{"color: var(--services-accent)"}},
		},
	},
	"featured": {
		"1": {
			{".featured-headline", []string{"color: var(--featured-heading)"}},
			{".product-card", []string{"background: var(--featured-card-bg)", "border-color: var(--featured-border)"}},
			{".product-tag", []string{"background: var(--featured-accent)", "color: var(--featured-accent-text)"}},
		},
		"2": {
			{".featured-headline", []string{"color: var(--featured-heading)"}},
			{".product-row", []string{"border-color: var(--featured-border)"}},
			{".product-testimonial", []string{"color: var(--featured-muted)", "border-color: var(--featured-accent)"}},
		},
		"3": {
			{".featured-headline", []string{"color: var(--featured-heading)"}},
			{".product-slide", []string{"background: var(--featured-card-bg)"}},
			{".slider-button", []string{"background: var(--featured-accent)", "color: var(--featured-accent-text)"}},
		},
	},
	"footer": {
		"1": {
			{".footer-brand", []string{"color: var(--footer-heading)"}},
			{".footer-description", []string{"color: var(--footer-muted)"}},
			{".social-link", []string{"color: var(--footer-link)"}},
		},
		"2": {
			{".footer-columns", []string{"border-color: var(--footer-border)"}},
			{".footer-links a", []string{"color: var(--footer-text)"}},
			{".social-link", []string{"background: var(--footer-card-bg)", "color: var(--footer-text)"}},
		},
		"3": {
			{".footer-brand", []string{"color: var(--footer-accent)"}},
			{".footer-copyright", []string{"color: var(--footer-muted)"}},
			{".social-link", []string{"border-color: var(--footer-border)", "color: var(--footer-link)"}},
		},
	},
}

// OverrideStyles lists the style ids with palette overrides for a kind, sorted.
func OverrideStyles(kind string) []string {
	ids := make([]string, 0, len(overrides[kind]))
	for id := range overrides[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func writeOverrides(b *strings.Builder) {
	for _, kind := range SectionKinds {
		for _, id := range OverrideStyles(kind) {
			root := "." + WrapperClass(kind) + "." + StyleClass(kind, id)
			for _, r := range overrides[kind][id] {
				sel := root
				if r.selector != "" {
					sel += " " + r.selector
				}
				fmt.Fprintf(b, "%s { %s !important; }\n", sel, strings.Join(r.decls, " !important; "))
			}
		}
	}
}
