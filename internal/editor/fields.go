package editor

import (
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

func unknownField(kind, name string) error {
	return ferrors.ValidationError("unknown "+kind).
		WithContext("field", name).
		Build()
}

// SetText updates one free-text field.
func (c *Controller) SetText(field content.TextField, value string) error {
	return c.mutate(func(r *content.Record) error {
		if !r.SetText(field, value) {
			return unknownField("text field", string(field))
		}
		return nil
	})
}

// SetContact updates one contact field (phone, email or address), keeping
// its siblings.
func (c *Controller) SetContact(field, value string) error {
	return c.mutate(func(r *content.Record) error {
		contact := content.Contact{}
		if r.Contact != nil {
			contact = *r.Contact
		}
		switch field {
		case "phone":
			contact.Phone = value
		case "email":
			contact.Email = value
		case "address":
			contact.Address = value
		default:
			return unknownField("contact field", field)
		}
		r.Contact = &contact
		return nil
	})
}

// SetHeroCTA updates the hero call-to-action label or link.
func (c *Controller) SetHeroCTA(field, value string) error {
	return c.mutate(func(r *content.Record) error {
		cta := content.CTA{}
		if r.HeroCTA != nil {
			cta = *r.HeroCTA
		}
		switch field {
		case "label":
			cta.Label = value
		case "link":
			cta.Link = value
		default:
			return unknownField("cta field", field)
		}
		r.HeroCTA = &cta
		return nil
	})
}

// SetTestimonial updates the hero testimonial quote, author or role.
func (c *Controller) SetTestimonial(field, value string) error {
	return c.mutate(func(r *content.Record) error {
		t := content.Testimonial{}
		if r.HeroTestimonial != nil {
			t = *r.HeroTestimonial
		}
		switch field {
		case "quote":
			t.Quote = value
		case "author":
			t.Author = value
		case "role":
			t.Role = value
		default:
			return unknownField("testimonial field", field)
		}
		r.HeroTestimonial = &t
		return nil
	})
}

// ToggleVisibility flips a visibility flag and returns its new value. A
// missing flag counts as visible, so the first toggle hides.
func (c *Controller) ToggleVisibility(flag string) (bool, error) {
	var shown bool
	err := c.mutate(func(r *content.Record) error {
		if !content.KnownFlag(flag) {
			return unknownField("visibility flag", flag)
		}
		shown = !r.Visibility.IsVisible(flag)
		setFlag(r, flag, shown)
		return nil
	})
	return shown, err
}

// SetVisibility sets a visibility flag explicitly.
func (c *Controller) SetVisibility(flag string, shown bool) error {
	return c.mutate(func(r *content.Record) error {
		if !content.KnownFlag(flag) {
			return unknownField("visibility flag", flag)
		}
		setFlag(r, flag, shown)
		return nil
	})
}

func setFlag(r *content.Record, flag string, shown bool) {
	v := r.Visibility.Clone()
	if v == nil {
		v = content.Visibility{}
	}
	v[flag] = shown
	r.Visibility = v
}

// SetStyle selects the style variant of a section kind. An unregistered id
// is stored as the kind's default.
func (c *Controller) SetStyle(kind content.SectionKind, styleID string) error {
	return c.mutate(func(r *content.Record) error {
		if _, ok := content.ParseKind(string(kind)); !ok {
			return unknownField("section kind", string(kind))
		}
		if !sections.HasStyle(kind, styleID) {
			styleID = sections.DefaultStyle
		}
		styles := r.Styles.Clone()
		if styles.Sections == nil {
			styles.Sections = map[content.SectionKind]string{}
		}
		styles.Sections[kind] = styleID
		r.Styles = styles
		return nil
	})
}

// SetColorScheme selects a color scheme; unknown ids store the default.
func (c *Controller) SetColorScheme(id string) error {
	return c.mutate(func(r *content.Record) error {
		r.Styles.ColorScheme = theme.ResolveScheme(id).ID
		return nil
	})
}

// SetFontPairing selects a font pairing; unknown ids store the default.
func (c *Controller) SetFontPairing(id string) error {
	return c.mutate(func(r *content.Record) error {
		r.Styles.FontPairing = theme.ResolvePairing(id).ID
		return nil
	})
}

// SetNavbarLinks replaces the navbar links.
func (c *Controller) SetNavbarLinks(links []content.Link) error {
	return c.mutate(func(r *content.Record) error {
		r.NavbarLinks = slices.Clone(links)
		if r.NavbarLinks == nil {
			r.NavbarLinks = []content.Link{}
		}
		return nil
	})
}

// SetAboutTags replaces the about tags.
func (c *Controller) SetAboutTags(tags []string) error {
	return c.mutate(func(r *content.Record) error {
		r.AboutTags = slices.Clone(tags)
		return nil
	})
}
