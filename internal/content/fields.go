package content

import (
	"slices"
	"strconv"
	"strings"
)

// TextField names an editable text value by its record path.
type TextField string

const (
	FieldBusinessName        TextField = "businessName"
	FieldTagline             TextField = "tagline"
	FieldAbout               TextField = "about"
	FieldHeroHeadline        TextField = "hero_headline"
	FieldHeroSubheadline     TextField = "hero_subheadline"
	FieldHeroBadge           TextField = "hero_badge"
	FieldAboutHeadline       TextField = "about_headline"
	FieldAboutDescription    TextField = "about_description"
	FieldAboutTagline        TextField = "about_tagline"
	FieldServicesHeadline    TextField = "services.headline"
	FieldServicesSubheadline TextField = "services.subheadline"
	FieldFeaturedHeadline    TextField = "featured.headline"
	FieldFeaturedSubheadline TextField = "featured.subheadline"
	FieldFooterDescription   TextField = "footer.description"
)

type textAccessor struct {
	get func(*Record) string
	set func(*Record, string)
}

var textFields = map[TextField]textAccessor{
	FieldBusinessName:    {func(r *Record) string { return r.BusinessName }, func(r *Record, v string) { r.BusinessName = v }},
	FieldTagline:         {func(r *Record) string { return r.Tagline }, func(r *Record, v string) { r.Tagline = v }},
	FieldAbout:           {func(r *Record) string { return r.About }, func(r *Record, v string) { r.About = v }},
	FieldHeroHeadline:    {func(r *Record) string { return r.HeroHeadline }, func(r *Record, v string) { r.HeroHeadline = v }},
	FieldHeroSubheadline: {func(r *Record) string { return r.HeroSubheadline }, func(r *Record, v string) { r.HeroSubheadline = v }},
	FieldHeroBadge:       {func(r *Record) string { return r.HeroBadge }, func(r *Record, v string) { r.HeroBadge = v }},
	FieldAboutHeadline:   {func(r *Record) string { return r.AboutHeadline }, func(r *Record, v string) { r.AboutHeadline = v }},
	FieldAboutDescription: {
		func(r *Record) string { return r.AboutDescription },
		func(r *Record, v string) { r.AboutDescription = v },
	},
	FieldAboutTagline: {func(r *Record) string { return r.AboutTagline }, func(r *Record, v string) { r.AboutTagline = v }},
	FieldServicesHeadline: {
		func(r *Record) string { return servicesOf(r).Headline },
		func(r *Record, v string) { ensureServices(r).Headline = v },
	},
	FieldServicesSubheadline: {
		func(r *Record) string { return servicesOf(r).Subheadline },
		func(r *Record, v string) { ensureServices(r).Subheadline = v },
	},
	FieldFeaturedHeadline: {
		func(r *Record) string { return featuredOf(r).Headline },
		func(r *Record, v string) { ensureFeatured(r).Headline = v },
	},
	FieldFeaturedSubheadline: {
		func(r *Record) string { return featuredOf(r).Subheadline },
		func(r *Record, v string) { ensureFeatured(r).Subheadline = v },
	},
	FieldFooterDescription: {
		func(r *Record) string { return footerOf(r).Description },
		func(r *Record, v string) { ensureFooter(r).Description = v },
	},
}

// TextFields lists the editable text fields, sorted.
func TextFields() []TextField {
	out := make([]TextField, 0, len(textFields))
	for f := range textFields {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ParseTextField reports whether s names an editable text field.
func ParseTextField(s string) (TextField, bool) {
	_, ok := textFields[TextField(s)]
	return TextField(s), ok
}

// Text returns the value of a text field.
func (r *Record) Text(f TextField) (string, bool) {
	a, ok := textFields[f]
	if !ok {
		return "", false
	}
	return a.get(r), true
}

// SetText assigns a text field, creating parent objects as needed.
func (r *Record) SetText(f TextField, v string) bool {
	a, ok := textFields[f]
	if !ok {
		return false
	}
	a.set(r, v)
	return true
}

// ImageField names a record field holding image references. Product images
// use the indexed form "featured.products.<i>.image".
type ImageField string

const (
	ImageLogo     ImageField = "logo"
	ImageHero     ImageField = "hero_images"
	ImageAbout    ImageField = "about_images"
	ImageServices ImageField = "services.image"
	ImageFeatured ImageField = "featured_images"
)

const (
	productPrefix = "featured.products."
	productSuffix = ".image"
)

// ProductImage returns the image field of the i-th product.
func ProductImage(i int) ImageField {
	return ImageField(productPrefix + strconv.Itoa(i) + productSuffix)
}

// Galleries lists the array-valued image fields.
var Galleries = []ImageField{ImageHero, ImageAbout, ImageFeatured}

// Single reports whether the field holds one image rather than a gallery.
func (f ImageField) Single() bool {
	switch f {
	case ImageHero, ImageAbout, ImageFeatured:
		return false
	}
	return true
}

func (f ImageField) productIndex() (int, bool) {
	s := string(f)
	if !strings.HasPrefix(s, productPrefix) || !strings.HasSuffix(s, productSuffix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(s, productPrefix), productSuffix))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Valid reports whether f addresses a known image slot in r.
func (f ImageField) Valid(r *Record) bool {
	switch f {
	case ImageLogo, ImageHero, ImageAbout, ImageServices, ImageFeatured:
		return true
	}
	i, ok := f.productIndex()
	return ok && r.Featured != nil && i < len(r.Featured.Products)
}

// Images returns the references stored in f. Single fields yield zero or one
// element; a nil gallery stays nil so callers can tell unset from empty.
func (r *Record) Images(f ImageField) []string {
	single := func(v string) []string {
		if v == "" {
			return nil
		}
		return []string{v}
	}
	switch f {
	case ImageLogo:
		return single(r.Logo)
	case ImageHero:
		return r.HeroImages
	case ImageAbout:
		return r.AboutImages
	case ImageFeatured:
		return r.FeaturedImages
	case ImageServices:
		return single(servicesOf(r).Image)
	}
	if i, ok := f.productIndex(); ok && r.Featured != nil && i < len(r.Featured.Products) {
		return single(r.Featured.Products[i].Image)
	}
	return nil
}

// SetImages stores refs in f. For single fields only the first element is
// kept. It reports false for unknown fields.
func (r *Record) SetImages(f ImageField, refs []string) bool {
	first := ""
	if len(refs) > 0 {
		first = refs[0]
	}
	switch f {
	case ImageLogo:
		r.Logo = first
	case ImageHero:
		r.HeroImages = refs
	case ImageAbout:
		r.AboutImages = refs
	case ImageFeatured:
		r.FeaturedImages = refs
	case ImageServices:
		ensureServices(r).Image = first
	default:
		i, ok := f.productIndex()
		if !ok || r.Featured == nil || i >= len(r.Featured.Products) {
			return false
		}
		r.Featured.Products[i].Image = first
	}
	return true
}

// ImagesOrPool returns a gallery's references, or pool when the gallery is
// unset. An explicit empty gallery does not fall back.
func (r *Record) ImagesOrPool(f ImageField, pool []string) []string {
	if imgs := r.Images(f); imgs != nil || f.Single() {
		return imgs
	}
	return pool
}

// ImageFields lists every image slot present in r: the fixed fields followed
// by one entry per product.
func (r *Record) ImageFields() []ImageField {
	out := []ImageField{ImageLogo, ImageHero, ImageAbout, ImageServices, ImageFeatured}
	if r.Featured != nil {
		for i := range r.Featured.Products {
			out = append(out, ProductImage(i))
		}
	}
	return out
}

var (
	emptyServices Services
	emptyFeatured Featured
	emptyFooter   Footer
)

func servicesOf(r *Record) *Services {
	if r.Services == nil {
		return &emptyServices
	}
	return r.Services
}

func featuredOf(r *Record) *Featured {
	if r.Featured == nil {
		return &emptyFeatured
	}
	return r.Featured
}

func footerOf(r *Record) *Footer {
	if r.Footer == nil {
		return &emptyFooter
	}
	return r.Footer
}

func ensureServices(r *Record) *Services {
	if r.Services == nil {
		r.Services = &Services{}
	}
	return r.Services
}

func ensureFeatured(r *Record) *Featured {
	if r.Featured == nil {
		r.Featured = &Featured{}
	}
	return r.Featured
}

func ensureFooter(r *Record) *Footer {
	if r.Footer == nil {
		r.Footer = &Footer{}
	}
	return r.Footer
}
