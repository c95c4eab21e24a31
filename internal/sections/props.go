package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// Props is implemented by the per-kind prop types only.
type Props interface {
	Kind() content.SectionKind
	Flags() content.Visibility
	sealed()
}

// NavbarProps feeds the navbar generators.
type NavbarProps struct {
	Visibility   content.Visibility
	BusinessName string
	Logo         string
	LogoPending  bool
	// Links nil uses content.DefaultNavbarLinks; empty renders no links.
	Links []content.Link
	CTA   *content.CTA
}

// HeroProps feeds the hero generators.
type HeroProps struct {
	Visibility   content.Visibility
	BusinessName string
	Tagline      string
	Headline     string
	Subheadline  string
	Badge        string
	CTA          *content.CTA
	Testimonial  *content.Testimonial
	Photos       []string
}

// AboutProps feeds the about generators.
type AboutProps struct {
	Visibility   content.Visibility
	BusinessName string
	About        string
	Headline     string
	Description  string
	Tagline      string
	Tags         []string
	Photos       []string
}

// ServicesProps feeds the services generators.
type ServicesProps struct {
	Visibility  content.Visibility
	Headline    string
	Subheadline string
	// Items nil uses content.DefaultServiceItems.
	Items  []content.ServiceItem
	Photos []string
}

// Product is a collection item with its image already resolved.
type Product struct {
	content.Product
	ImagePending bool
}

// FeaturedProps feeds the featured generators.
type FeaturedProps struct {
	Visibility  content.Visibility
	Headline    string
	Subheadline string
	// Products nil uses content.DefaultProducts.
	Products []Product
	Photos   []string
}

// FooterProps feeds the footer generators.
type FooterProps struct {
	Visibility   content.Visibility
	BusinessName string
	Description  string
	Social       []content.SocialLink
	Contact      *content.Contact
	// Links nil uses content.DefaultNavbarLinks.
	Links []content.Link
	// Year zero means the current year.
	Year int
}

func (NavbarProps) Kind() content.SectionKind   { return content.KindNavbar }
func (HeroProps) Kind() content.SectionKind     { return content.KindHero }
func (AboutProps) Kind() content.SectionKind    { return content.KindAbout }
func (ServicesProps) Kind() content.SectionKind { return content.KindServices }
func (FeaturedProps) Kind() content.SectionKind { return content.KindFeatured }
func (FooterProps) Kind() content.SectionKind   { return content.KindFooter }

func (p NavbarProps) Flags() content.Visibility   { return p.Visibility }
func (p HeroProps) Flags() content.Visibility     { return p.Visibility }
func (p AboutProps) Flags() content.Visibility    { return p.Visibility }
func (p ServicesProps) Flags() content.Visibility { return p.Visibility }
func (p FeaturedProps) Flags() content.Visibility { return p.Visibility }
func (p FooterProps) Flags() content.Visibility   { return p.Visibility }

func (NavbarProps) sealed()   {}
func (HeroProps) sealed()     {}
func (AboutProps) sealed()    {}
func (ServicesProps) sealed() {}
func (FeaturedProps) sealed() {}
func (FooterProps) sealed()   {}
