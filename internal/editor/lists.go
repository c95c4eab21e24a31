package editor

import (
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func outOfRange(list string, index, n int) error {
	return ferrors.ValidationError("index out of range").
		WithContext("field", list).
		WithContext("index", index).
		WithContext("length", n).
		Build()
}

// listOp edits a copy of a list so a failed operation leaves the draft as it
// was.
func listOp[T any](list []T, name string, index int, op func([]T) []T) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, outOfRange(name, index, len(list))
	}
	return op(slices.Clone(list)), nil
}

func services(r *content.Record) *content.Services {
	if r.Services == nil {
		r.Services = &content.Services{}
	}
	return r.Services
}

func featured(r *content.Record) *content.Featured {
	if r.Featured == nil {
		r.Featured = &content.Featured{}
	}
	return r.Featured
}

func footer(r *content.Record) *content.Footer {
	if r.Footer == nil {
		r.Footer = &content.Footer{}
	}
	return r.Footer
}

// AddService appends a service item.
func (c *Controller) AddService(item content.ServiceItem) error {
	return c.mutate(func(r *content.Record) error {
		s := services(r)
		s.Items = append(slices.Clone(s.Items), item)
		return nil
	})
}

// UpdateService replaces the i-th service item.
func (c *Controller) UpdateService(i int, item content.ServiceItem) error {
	return c.mutate(func(r *content.Record) error {
		items, err := listOp(services(r).Items, "services.items", i, func(l []content.ServiceItem) []content.ServiceItem {
			l[i] = item
			return l
		})
		if err != nil {
			return err
		}
		r.Services.Items = items
		return nil
	})
}

// RemoveService deletes the i-th service item.
func (c *Controller) RemoveService(i int) error {
	return c.mutate(func(r *content.Record) error {
		items, err := listOp(services(r).Items, "services.items", i, func(l []content.ServiceItem) []content.ServiceItem {
			return slices.Delete(l, i, i+1)
		})
		if err != nil {
			return err
		}
		r.Services.Items = items
		return nil
	})
}

// AddProduct appends a featured product.
func (c *Controller) AddProduct(p content.Product) error {
	return c.mutate(func(r *content.Record) error {
		f := featured(r)
		f.Products = append(slices.Clone(f.Products), p)
		return nil
	})
}

// UpdateProduct replaces the i-th product. An empty image keeps the current
// one so text edits don't race an upload.
func (c *Controller) UpdateProduct(i int, p content.Product) error {
	return c.mutate(func(r *content.Record) error {
		products, err := listOp(featured(r).Products, "featured.products", i, func(l []content.Product) []content.Product {
			if p.Image == "" {
				p.Image = l[i].Image
			}
			l[i] = p
			return l
		})
		if err != nil {
			return err
		}
		r.Featured.Products = products
		return nil
	})
}

// RemoveProduct deletes the i-th product.
func (c *Controller) RemoveProduct(i int) error {
	return c.mutate(func(r *content.Record) error {
		products, err := listOp(featured(r).Products, "featured.products", i, func(l []content.Product) []content.Product {
			return slices.Delete(l, i, i+1)
		})
		if err != nil {
			return err
		}
		r.Featured.Products = products
		return nil
	})
}

// AddSocial appends a footer social link.
func (c *Controller) AddSocial(link content.SocialLink) error {
	return c.mutate(func(r *content.Record) error {
		f := footer(r)
		f.Social = append(slices.Clone(f.Social), link)
		return nil
	})
}

// UpdateSocial replaces the i-th social link.
func (c *Controller) UpdateSocial(i int, link content.SocialLink) error {
	return c.mutate(func(r *content.Record) error {
		social, err := listOp(footer(r).Social, "footer.social", i, func(l []content.SocialLink) []content.SocialLink {
			l[i] = link
			return l
		})
		if err != nil {
			return err
		}
		r.Footer.Social = social
		return nil
	})
}

// RemoveSocial deletes the i-th social link.
func (c *Controller) RemoveSocial(i int) error {
	return c.mutate(func(r *content.Record) error {
		social, err := listOp(footer(r).Social, "footer.social", i, func(l []content.SocialLink) []content.SocialLink {
			return slices.Delete(l, i, i+1)
		})
		if err != nil {
			return err
		}
		r.Footer.Social = social
		return nil
	})
}
