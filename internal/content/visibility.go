package content

import "strings"

// Visibility is a flat map of element toggles. A missing flag means visible;
// only an explicit false hides. Do not read it as a plain boolean map: the
// zero value of a missing key would invert the default.
type Visibility map[string]bool

// Section master and element flags.
const (
	FlagNavbarSection = "navbar_section"
	FlagNavbarBrand   = "navbar_brand"
	FlagNavbarLinks   = "navbar_links"
	FlagNavbarCTA     = "navbar_cta"

	FlagHeroSection     = "hero_section"
	FlagHeroBadge       = "hero_badge"
	FlagHeroHeadline    = "hero_headline"
	FlagHeroSubheadline = "hero_subheadline"
	FlagHeroCTA         = "hero_cta"
	FlagHeroTestimonial = "hero_testimonial"
	FlagHeroImages      = "hero_images"

	FlagAboutSection     = "about_section"
	FlagAboutTagline     = "about_tagline"
	FlagAboutHeadline    = "about_headline"
	FlagAboutDescription = "about_description"
	FlagAboutTags        = "about_tags"
	FlagAboutImages      = "about_images"

	FlagServicesSection     = "services_section"
	FlagServicesHeadline    = "services_headline"
	FlagServicesSubheadline = "services_subheadline"
	FlagServicesList        = "services_list"
	FlagServicesImage       = "services_image"

	FlagFeaturedSection     = "featured_section"
	FlagFeaturedHeadline    = "featured_headline"
	FlagFeaturedSubheadline = "featured_subheadline"
	FlagFeaturedProducts    = "featured_products"
	FlagFeaturedImages      = "featured_images"

	FlagFooterSection     = "footer_section"
	FlagFooterDescription = "footer_description"
	FlagFooterContact     = "footer_contact"
	FlagFooterSocial      = "footer_social"
	FlagFooterLinks       = "footer_links"
	FlagFooterCopyright   = "footer_copyright"
)

var knownFlags = map[string]bool{}

func init() {
	for _, f := range Flags() {
		knownFlags[f] = true
	}
}

// Flags lists every visibility flag in document order.
func Flags() []string {
	return []string{
		FlagNavbarSection, FlagNavbarBrand, FlagNavbarLinks, FlagNavbarCTA,
		FlagHeroSection, FlagHeroBadge, FlagHeroHeadline, FlagHeroSubheadline, FlagHeroCTA, FlagHeroTestimonial, FlagHeroImages,
		FlagAboutSection, FlagAboutTagline, FlagAboutHeadline, FlagAboutDescription, FlagAboutTags, FlagAboutImages,
		FlagServicesSection, FlagServicesHeadline, FlagServicesSubheadline, FlagServicesList, FlagServicesImage,
		FlagFeaturedSection, FlagFeaturedHeadline, FlagFeaturedSubheadline, FlagFeaturedProducts, FlagFeaturedImages,
		FlagFooterSection, FlagFooterDescription, FlagFooterContact, FlagFooterSocial, FlagFooterLinks, FlagFooterCopyright,
	}
}

// KnownFlag reports whether flag is one of Flags.
func KnownFlag(flag string) bool { return knownFlags[flag] }

// IsVisible reports whether flag is visible: anything but an explicit false.
func (v Visibility) IsVisible(flag string) bool {
	shown, ok := v[flag]
	return !ok || shown
}

// SectionFlag returns the master flag of a section kind.
func SectionFlag(kind SectionKind) string { return string(kind) + "_section" }

// Sub returns the flags belonging to a section kind. The result is a copy and
// keeps the missing-means-visible semantics.
func (v Visibility) Sub(kind SectionKind) Visibility {
	prefix := string(kind) + "_"
	out := Visibility{}
	for k, shown := range v {
		if strings.HasPrefix(k, prefix) {
			out[k] = shown
		}
	}
	return out
}

// Clone returns an independent copy.
func (v Visibility) Clone() Visibility {
	if v == nil {
		return nil
	}
	out := make(Visibility, len(v))
	for k, shown := range v {
		out[k] = shown
	}
	return out
}
