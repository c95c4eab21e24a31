package content

// Clone returns a deep copy of r. Nil slices stay nil so unset image
// galleries keep falling back to the photo pool.
func (r Record) Clone() Record {
	out := r
	out.NavbarLinks = cloneSlice(r.NavbarLinks)
	out.HeroImages = cloneSlice(r.HeroImages)
	out.AboutTags = cloneSlice(r.AboutTags)
	out.AboutImages = cloneSlice(r.AboutImages)
	out.FeaturedImages = cloneSlice(r.FeaturedImages)
	if r.HeroCTA != nil {
		cta := *r.HeroCTA
		out.HeroCTA = &cta
	}
	out.HeroTestimonial = cloneTestimonial(r.HeroTestimonial)
	if r.Services != nil {
		s := *r.Services
		s.Items = cloneSlice(r.Services.Items)
		out.Services = &s
	}
	if r.Featured != nil {
		f := *r.Featured
		if r.Featured.Products != nil {
			f.Products = make([]Product, len(r.Featured.Products))
			for i, p := range r.Featured.Products {
				p.Tags = cloneSlice(p.Tags)
				p.Testimonial = cloneTestimonial(p.Testimonial)
				f.Products[i] = p
			}
		}
		out.Featured = &f
	}
	if r.Footer != nil {
		f := *r.Footer
		f.Social = cloneSlice(r.Footer.Social)
		out.Footer = &f
	}
	if r.Contact != nil {
		c := *r.Contact
		out.Contact = &c
	}
	out.Visibility = r.Visibility.Clone()
	out.Styles = r.Styles.Clone()
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneTestimonial(t *Testimonial) *Testimonial {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
