package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// Featured defaults.
const (
	DefaultFeaturedHeadline    = "Featured Work"
	DefaultFeaturedSubheadline = "A selection of what we're proud of"

	// FeaturedGalleryCap is the most gallery images a featured style renders.
	FeaturedGalleryCap = 6
)

type productView struct {
	Title       string
	Description string
	Tags        []string
	Image       *image
	Testimonial *content.Testimonial
}

type featuredView struct {
	root
	Headline    string
	Subheadline string
	Products    []productView
	Images      []image

	ShowHeadline    bool
	ShowSubheadline bool
	ShowProducts    bool
	ShowImages      bool
}

func newFeaturedView(style string, p FeaturedProps) featuredView {
	v := p.Visibility
	products := p.Products
	if products == nil {
		for _, d := range content.DefaultProducts() {
			products = append(products, Product{Product: d})
		}
	}
	items := make([]productView, 0, len(products))
	for _, prod := range products {
		item := productView{
			Title:       prod.Title,
			Description: prod.Description,
			Tags:        prod.Tags,
		}
		if prod.Image != "" || prod.ImagePending {
			img := newImage(prod.Image, prod.Title, "product-image")
			img.Pending = img.Pending || prod.ImagePending
			item.Image = &img
		}
		if t := prod.Testimonial; t != nil && t.Quote != "" {
			item.Testimonial = t
		}
		items = append(items, item)
	}
	headline := or(p.Headline, DefaultFeaturedHeadline)
	images := newImages(p.Photos, headline, "featured-image", FeaturedGalleryCap)
	return featuredView{
		root:            newRoot(content.KindFeatured, style),
		Headline:        headline,
		Subheadline:     or(p.Subheadline, DefaultFeaturedSubheadline),
		Products:        items,
		Images:          images,
		ShowHeadline:    v.IsVisible(content.FlagFeaturedHeadline),
		ShowSubheadline: v.IsVisible(content.FlagFeaturedSubheadline),
		ShowProducts:    v.IsVisible(content.FlagFeaturedProducts) && len(items) > 0,
		ShowImages:      v.IsVisible(content.FlagFeaturedImages) && len(images) > 0,
	}
}

var featuredFields = []string{
	content.FlagFeaturedHeadline, content.FlagFeaturedSubheadline,
	content.FlagFeaturedProducts, content.FlagFeaturedImages,
}

var featuredVariants = []Variant[FeaturedProps]{
	{
		ID:     "1",
		Label:  "Grid",
		Fields: featuredFields,
		Render: func(p FeaturedProps) string { return execute("featured-1", newFeaturedView("1", p)) },
	},
	{
		ID:     "2",
		Label:  "Showcase rows",
		Fields: featuredFields,
		Render: func(p FeaturedProps) string { return execute("featured-2", newFeaturedView("2", p)) },
	},
	{
		ID:     "3",
		Label:  "Slider",
		Fields: featuredFields,
		Render: func(p FeaturedProps) string { return execute("featured-3", newFeaturedView("3", p)) },
	},
}
