package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// About defaults.
const (
	DefaultAboutTagline     = "Our story"
	DefaultAboutHeadline    = "About us"
	DefaultAboutDescription = "We are a local business dedicated to doing great work for our community."

	// AboutImageCap is the most images an about style renders.
	AboutImageCap = 4
)

type aboutView struct {
	root
	Tagline     string
	Headline    string
	Description string
	Tags        []string
	Images      []image

	ShowTagline     bool
	ShowHeadline    bool
	ShowDescription bool
	ShowTags        bool
	ShowImages      bool
}

func newAboutView(style string, p AboutProps) aboutView {
	v := p.Visibility
	headline := DefaultAboutHeadline
	if p.BusinessName != "" {
		headline = "About " + p.BusinessName
	}
	images := newImages(p.Photos, or(p.BusinessName, DefaultBrand), "about-image", AboutImageCap)
	return aboutView{
		root:            newRoot(content.KindAbout, style),
		Tagline:         or(p.Tagline, DefaultAboutTagline),
		Headline:        or(p.Headline, headline),
		Description:     or(p.Description, or(p.About, DefaultAboutDescription)),
		Tags:            p.Tags,
		Images:          images,
		ShowTagline:     v.IsVisible(content.FlagAboutTagline),
		ShowHeadline:    v.IsVisible(content.FlagAboutHeadline),
		ShowDescription: v.IsVisible(content.FlagAboutDescription),
		ShowTags:        v.IsVisible(content.FlagAboutTags) && len(p.Tags) > 0,
		ShowImages:      v.IsVisible(content.FlagAboutImages) && len(images) > 0,
	}
}

var aboutVariants = []Variant[AboutProps]{
	{
		ID:    "1",
		Label: "Story",
		Fields: []string{
			content.FlagAboutTagline, content.FlagAboutHeadline, content.FlagAboutDescription, content.FlagAboutImages,
		},
		Render: func(p AboutProps) string { return execute("about-1", newAboutView("1", p)) },
	},
	{
		ID:    "2",
		Label: "Values",
		Fields: []string{
			content.FlagAboutHeadline, content.FlagAboutDescription, content.FlagAboutTags, content.FlagAboutImages,
		},
		Render: func(p AboutProps) string { return execute("about-2", newAboutView("2", p)) },
	},
	{
		ID:    "3",
		Label: "Panel",
		Fields: []string{
			content.FlagAboutTagline, content.FlagAboutHeadline, content.FlagAboutDescription,
			content.FlagAboutTags, content.FlagAboutImages,
		},
		Render: func(p AboutProps) string { return execute("about-3", newAboutView("3", p)) },
	},
}
