package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// Navbar defaults.
const (
	DefaultBrand       = "Your Business"
	DefaultNavbarLabel = "Get in touch"
	DefaultNavbarLink  = "#contact"
)

type navbarView struct {
	root
	Brand     string
	Logo      *image
	ShowBrand bool
	ShowLinks bool
	ShowCTA   bool
	Links     []content.Link
	CTA       content.CTA
}

func newNavbarView(style string, p NavbarProps) navbarView {
	v := p.Visibility
	links := p.Links
	if links == nil {
		links = content.DefaultNavbarLinks()
	}
	cta := content.CTA{Label: DefaultNavbarLabel, Link: DefaultNavbarLink}
	if p.CTA != nil {
		cta.Label = or(p.CTA.Label, cta.Label)
		cta.Link = or(p.CTA.Link, cta.Link)
	}
	view := navbarView{
		root:      newRoot(content.KindNavbar, style),
		Brand:     or(p.BusinessName, DefaultBrand),
		ShowBrand: v.IsVisible(content.FlagNavbarBrand),
		ShowLinks: v.IsVisible(content.FlagNavbarLinks) && len(links) > 0,
		ShowCTA:   v.IsVisible(content.FlagNavbarCTA),
		Links:     links,
		CTA:       cta,
	}
	if p.Logo != "" || p.LogoPending {
		img := newImage(p.Logo, view.Brand+" logo", "navbar-logo")
		img.Pending = img.Pending || p.LogoPending
		view.Logo = &img
	}
	return view
}

var navbarVariants = []Variant[NavbarProps]{
	{
		ID:     "1",
		Label:  "Classic",
		Fields: []string{content.FlagNavbarBrand, content.FlagNavbarLinks, content.FlagNavbarCTA},
		Render: func(p NavbarProps) string { return execute("navbar-1", newNavbarView("1", p)) },
	},
	{
		ID:     "2",
		Label:  "Centered",
		Fields: []string{content.FlagNavbarBrand, content.FlagNavbarLinks, content.FlagNavbarCTA},
		Render: func(p NavbarProps) string { return execute("navbar-2", newNavbarView("2", p)) },
	},
	{
		ID:     "3",
		Label:  "Compact menu",
		Fields: []string{content.FlagNavbarBrand, content.FlagNavbarLinks},
		Render: func(p NavbarProps) string { return execute("navbar-3", newNavbarView("3", p)) },
	},
}
