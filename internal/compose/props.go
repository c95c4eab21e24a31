package compose

import (
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
)

// displayable maps an image value to what a generator may show: fetchable
// URLs pass through, anything else becomes a pending slot.
func displayable(ref string) string {
	if content.IsFetchable(ref) {
		return ref
	}
	return ""
}

func displayableAll(refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = displayable(r)
	}
	return out
}

// propsFor builds the props of one kind. pool is the shared photo pool;
// galleries fall back to it only when unset.
func propsFor(kind content.SectionKind, r *content.Record, pool []string, year int) sections.Props {
	vis := r.Visibility.Sub(kind)
	switch kind {
	case content.KindNavbar:
		p := sections.NavbarProps{
			Visibility:   vis,
			BusinessName: r.BusinessName,
			Links:        r.NavbarLinks,
			CTA:          r.HeroCTA,
		}
		if r.Logo != "" {
			p.Logo = displayable(r.Logo)
			p.LogoPending = p.Logo == ""
		}
		return p
	case content.KindHero:
		return sections.HeroProps{
			Visibility:   vis,
			BusinessName: r.BusinessName,
			Tagline:      r.Tagline,
			Headline:     r.HeroHeadline,
			Subheadline:  r.HeroSubheadline,
			Badge:        r.HeroBadge,
			CTA:          r.HeroCTA,
			Testimonial:  r.HeroTestimonial,
			Photos:       displayableAll(r.ImagesOrPool(content.ImageHero, pool)),
		}
	case content.KindAbout:
		return sections.AboutProps{
			Visibility:   vis,
			BusinessName: r.BusinessName,
			About:        r.About,
			Headline:     r.AboutHeadline,
			Description:  r.AboutDescription,
			Tagline:      r.AboutTagline,
			Tags:         r.AboutTags,
			Photos:       displayableAll(r.ImagesOrPool(content.ImageAbout, pool)),
		}
	case content.KindServices:
		p := sections.ServicesProps{Visibility: vis}
		if s := r.Services; s != nil {
			p.Headline = s.Headline
			p.Subheadline = s.Subheadline
			p.Items = s.Items
		}
		if img := r.Images(content.ImageServices); len(img) > 0 {
			p.Photos = displayableAll(img)
		} else if len(pool) > 0 {
			p.Photos = displayableAll(pool[:1])
		}
		return p
	case content.KindFeatured:
		p := sections.FeaturedProps{
			Visibility: vis,
			Photos:     displayableAll(r.ImagesOrPool(content.ImageFeatured, pool)),
		}
		if f := r.Featured; f != nil {
			p.Headline = f.Headline
			p.Subheadline = f.Subheadline
			if f.Products != nil {
				p.Products = make([]sections.Product, len(f.Products))
				for i, prod := range f.Products {
					item := sections.Product{Product: prod}
					if prod.Image != "" {
						item.Image = displayable(prod.Image)
						item.ImagePending = item.Image == ""
					}
					p.Products[i] = item
				}
			}
		}
		return p
	case content.KindFooter:
		p := sections.FooterProps{
			Visibility:   vis,
			BusinessName: r.BusinessName,
			Contact:      r.Contact,
			Links:        r.NavbarLinks,
			Year:         year,
		}
		if f := r.Footer; f != nil {
			p.Description = f.Description
			p.Social = f.Social
		}
		return p
	}
	return nil
}
