package sections

import "git.home.luguber.info/inful/sitebuilder/internal/content"

// Services defaults.
const (
	DefaultServicesHeadline    = "Our Services"
	DefaultServicesSubheadline = "What we can do for you"
)

type servicesView struct {
	root
	Headline    string
	Subheadline string
	Items       []content.ServiceItem
	Image       *image

	ShowHeadline    bool
	ShowSubheadline bool
	ShowList        bool
	ShowImage       bool
}

func newServicesView(style string, p ServicesProps) servicesView {
	v := p.Visibility
	items := p.Items
	if items == nil {
		items = content.DefaultServiceItems()
	}
	view := servicesView{
		root:            newRoot(content.KindServices, style),
		Headline:        or(p.Headline, DefaultServicesHeadline),
		Subheadline:     or(p.Subheadline, DefaultServicesSubheadline),
		Items:           items,
		ShowHeadline:    v.IsVisible(content.FlagServicesHeadline),
		ShowSubheadline: v.IsVisible(content.FlagServicesSubheadline),
		ShowList:        v.IsVisible(content.FlagServicesList) && len(items) > 0,
	}
	if len(p.Photos) > 0 {
		img := newImage(p.Photos[0], view.Headline, "services-image")
		view.Image = &img
		view.ShowImage = v.IsVisible(content.FlagServicesImage)
	}
	return view
}

var servicesVariants = []Variant[ServicesProps]{
	{
		ID:    "1",
		Label: "Cards",
		Fields: []string{
			content.FlagServicesHeadline, content.FlagServicesSubheadline, content.FlagServicesList,
		},
		Render: func(p ServicesProps) string { return execute("services-1", newServicesView("1", p)) },
	},
	{
		ID:    "2",
		Label: "Numbered",
		Fields: []string{
			content.FlagServicesHeadline, content.FlagServicesSubheadline, content.FlagServicesList,
			content.FlagServicesImage,
		},
		Render: func(p ServicesProps) string { return execute("services-2", newServicesView("2", p)) },
	},
	{
		ID:    "3",
		Label: "Accordion",
		Fields: []string{
			content.FlagServicesHeadline, content.FlagServicesSubheadline, content.FlagServicesList,
		},
		Render: func(p ServicesProps) string { return execute("services-3", newServicesView("3", p)) },
	},
}
