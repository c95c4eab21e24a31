package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// Hero defaults.
const (
	DefaultHeroSubheadline = "Welcome in. We're glad you're here."
	DefaultHeroBadge       = "Now welcoming new clients"
	DefaultHeroCTALabel    = "Work with us"
	DefaultHeroCTALink     = "#contact"
	DefaultHeroQuote       = "Working with them was the best decision we made this year."
	DefaultHeroQuoteAuthor = "A happy client"

	// HeroCarouselMin is the tile count the carousel style pads up to.
	HeroCarouselMin = 8
	heroMosaicSize  = 3
)

type heroView struct {
	root
	Headline    string
	Subheadline string
	Badge       string
	CTA         content.CTA
	Testimonial content.Testimonial
	Images      []image

	ShowBadge       bool
	ShowHeadline    bool
	ShowSubheadline bool
	ShowCTA         bool
	ShowTestimonial bool
	ShowImages      bool
}

// newHeroView applies defaults. photos is the style's share of the pool.
func newHeroView(style string, p HeroProps, photos []string) heroView {
	v := p.Visibility
	name := or(p.BusinessName, DefaultBrand)

	cta := content.CTA{Label: DefaultHeroCTALabel, Link: DefaultHeroCTALink}
	if p.CTA != nil {
		cta.Label = or(p.CTA.Label, cta.Label)
		cta.Link = or(p.CTA.Link, cta.Link)
	}
	quote := content.Testimonial{Quote: DefaultHeroQuote, Author: DefaultHeroQuoteAuthor}
	if p.Testimonial != nil {
		quote.Quote = or(p.Testimonial.Quote, quote.Quote)
		quote.Author = or(p.Testimonial.Author, quote.Author)
		quote.Role = p.Testimonial.Role
	}

	images := newImages(photos, name, "hero-image", 0)
	return heroView{
		root:            newRoot(content.KindHero, style),
		Headline:        or(p.Headline, name),
		Subheadline:     or(p.Subheadline, or(p.Tagline, DefaultHeroSubheadline)),
		Badge:           or(p.Badge, DefaultHeroBadge),
		CTA:             cta,
		Testimonial:     quote,
		Images:          images,
		ShowBadge:       v.IsVisible(content.FlagHeroBadge),
		ShowHeadline:    v.IsVisible(content.FlagHeroHeadline),
		ShowSubheadline: v.IsVisible(content.FlagHeroSubheadline),
		ShowCTA:         v.IsVisible(content.FlagHeroCTA),
		ShowTestimonial: v.IsVisible(content.FlagHeroTestimonial),
		ShowImages:      v.IsVisible(content.FlagHeroImages) && len(images) > 0,
	}
}

func firstN(photos []string, n int) []string {
	if len(photos) > n {
		return photos[:n]
	}
	return photos
}

var heroVariants = []Variant[HeroProps]{
	{
		ID:    "1",
		Label: "Spotlight",
		Fields: []string{
			content.FlagHeroHeadline, content.FlagHeroSubheadline, content.FlagHeroCTA, content.FlagHeroImages,
		},
		Render: func(p HeroProps) string {
			return execute("hero-1", newHeroView("1", p, firstN(p.Photos, 1)))
		},
	},
	{
		ID:    "2",
		Label: "Mosaic",
		Fields: []string{
			content.FlagHeroBadge, content.FlagHeroHeadline, content.FlagHeroSubheadline,
			content.FlagHeroCTA, content.FlagHeroTestimonial, content.FlagHeroImages,
		},
		Render: func(p HeroProps) string {
			return execute("hero-2", newHeroView("2", p, firstN(p.Photos, heroMosaicSize)))
		},
	},
	{
		ID:    "3",
		Label: "Carousel",
		Fields: []string{
			content.FlagHeroHeadline, content.FlagHeroSubheadline, content.FlagHeroCTA, content.FlagHeroImages,
		},
		Render: func(p HeroProps) string {
			return execute("hero-3", newHeroView("3", p, padCycle(p.Photos, HeroCarouselMin)))
		},
	},
}
