package sections

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// DefaultFooterDescription is shown when the footer has no description.
const DefaultFooterDescription = "Crafted with care for the people and places we serve."

// Copyright returns the footer copyright line.
func Copyright(year int, name string) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", year, or(name, DefaultBrand))
}

// PlatformLabel display-cases a social platform name.
func PlatformLabel(platform string) string {
	return cases.Title(language.English).String(strings.TrimSpace(platform))
}

type socialView struct {
	Label string
	URL   string
}

type footerView struct {
	root
	Brand       string
	Description string
	Copyright   string
	Links       []content.Link
	Social      []socialView
	Contact     content.Contact

	ShowDescription bool
	ShowContact     bool
	ShowSocial      bool
	ShowLinks       bool
	ShowCopyright   bool
}

func newFooterView(style string, p FooterProps) footerView {
	v := p.Visibility
	year := p.Year
	if year == 0 {
		year = time.Now().Year()
	}
	links := p.Links
	if links == nil {
		links = content.DefaultNavbarLinks()
	}
	social := make([]socialView, 0, len(p.Social))
	for _, s := range p.Social {
		if s.URL == "" {
			continue
		}
		social = append(social, socialView{Label: or(PlatformLabel(s.Platform), s.URL), URL: s.URL})
	}
	var contact content.Contact
	if p.Contact != nil {
		contact = *p.Contact
	}
	return footerView{
		root:            newRoot(content.KindFooter, style),
		Brand:           or(p.BusinessName, DefaultBrand),
		Description:     or(p.Description, DefaultFooterDescription),
		Copyright:       Copyright(year, p.BusinessName),
		Links:           links,
		Social:          social,
		Contact:         contact,
		ShowDescription: v.IsVisible(content.FlagFooterDescription),
		ShowContact:     v.IsVisible(content.FlagFooterContact) && !contact.IsZero(),
		ShowSocial:      v.IsVisible(content.FlagFooterSocial) && len(social) > 0,
		ShowLinks:       v.IsVisible(content.FlagFooterLinks) && len(links) > 0,
		ShowCopyright:   v.IsVisible(content.FlagFooterCopyright),
	}
}

var footerVariants = []Variant[FooterProps]{
	{
		ID:    "1",
		Label: "Simple",
		Fields: []string{
			content.FlagFooterDescription, content.FlagFooterSocial, content.FlagFooterCopyright,
		},
		Render: func(p FooterProps) string { return execute("footer-1", newFooterView("1", p)) },
	},
	{
		ID:    "2",
		Label: "Columns",
		Fields: []string{
			content.FlagFooterDescription, content.FlagFooterContact, content.FlagFooterSocial,
			content.FlagFooterLinks, content.FlagFooterCopyright,
		},
		Render: func(p FooterProps) string { return execute("footer-2", newFooterView("2", p)) },
	},
	{
		ID:    "3",
		Label: "Centered",
		Fields: []string{
			content.FlagFooterDescription, content.FlagFooterContact, content.FlagFooterSocial,
			content.FlagFooterCopyright,
		},
		Render: func(p FooterProps) string { return execute("footer-3", newFooterView("3", p)) },
	},
}
