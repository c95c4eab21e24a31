package sections

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

func emptyProps(kind content.SectionKind) Props {
	switch kind {
	case content.KindNavbar:
		return NavbarProps{}
	case content.KindHero:
		return HeroProps{}
	case content.KindAbout:
		return AboutProps{}
	case content.KindServices:
		return ServicesProps{}
	case content.KindFeatured:
		return FeaturedProps{}
	case content.KindFooter:
		return FooterProps{}
	}
	return nil
}

func richProps(kind content.SectionKind, vis content.Visibility) Props {
	switch kind {
	case content.KindNavbar:
		return NavbarProps{
			Visibility: vis, BusinessName: "Harbor Bakery", Logo: "https://cdn.example.com/logo.png",
			CTA: &content.CTA{Label: "Order now", Link: "#contact"},
		}
	case content.KindHero:
		return HeroProps{
			Visibility: vis, BusinessName: "Harbor Bakery", Tagline: "Bread worth waking up for",
			Headline: "Fresh every morning", Subheadline: "Baked by hand", Badge: "Open daily",
			CTA:         &content.CTA{Label: "Visit us", Link: "#contact"},
			Testimonial: &content.Testimonial{Quote: "Best loaf in town", Author: "Sam", Role: "Neighbour"},
			Photos:      []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg", "https://cdn.example.com/3.jpg"},
		}
	case content.KindAbout:
		return AboutProps{
			Visibility: vis, BusinessName: "Harbor Bakery", About: "Family bakery.",
			Tagline: "Since 1987", Tags: []string{"sourdough", "local"},
			Photos: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		}
	case content.KindServices:
		return ServicesProps{
			Visibility: vis,
			Items:      []content.ServiceItem{{Name: "Catering", Description: "Platters for events"}},
			Photos:     []string{"https://cdn.example.com/s.jpg"},
		}
	case content.KindFeatured:
		return FeaturedProps{
			Visibility: vis,
			Products: []Product{{Product: content.Product{
				Title: "Rye", Description: "Dense and dark", Image: "https://cdn.example.com/rye.jpg",
				Tags: []string{"vegan"}, Testimonial: &content.Testimonial{Quote: "Perfect toast", Author: "Kim"},
			}}},
			Photos: []string{"https://cdn.example.com/g1.jpg", "https://cdn.example.com/g2.jpg"},
		}
	case content.KindFooter:
		return FooterProps{
			Visibility: vis, BusinessName: "Harbor Bakery", Year: 2024,
			Social:  []content.SocialLink{{Platform: "instagram", URL: "https://instagram.com/harbor"}},
			Contact: &content.Contact{Phone: "555 0100", Email: "hello@harbor.example", Address: "1 Quay Street"},
		}
	}
	return nil
}

var elementFlags = map[content.SectionKind][]string{
	content.KindNavbar: {content.FlagNavbarBrand, content.FlagNavbarLinks, content.FlagNavbarCTA},
	content.KindHero: {
		content.FlagHeroBadge, content.FlagHeroHeadline, content.FlagHeroSubheadline,
		content.FlagHeroCTA, content.FlagHeroTestimonial, content.FlagHeroImages,
	},
	content.KindAbout: {
		content.FlagAboutTagline, content.FlagAboutHeadline, content.FlagAboutDescription,
		content.FlagAboutTags, content.FlagAboutImages,
	},
	content.KindServices: {
		content.FlagServicesHeadline, content.FlagServicesSubheadline, content.FlagServicesList, content.FlagServicesImage,
	},
	content.KindFeatured: {
		content.FlagFeaturedHeadline, content.FlagFeaturedSubheadline, content.FlagFeaturedProducts, content.FlagFeaturedImages,
	},
	content.KindFooter: {
		content.FlagFooterDescription, content.FlagFooterContact, content.FlagFooterSocial,
		content.FlagFooterLinks, content.FlagFooterCopyright,
	},
}

// defaultCopy is the text every style of a kind shows for empty props.
var defaultCopy = map[content.SectionKind][]string{
	content.KindNavbar:   {DefaultBrand},
	content.KindHero:     {DefaultBrand, DefaultHeroSubheadline, DefaultHeroCTALabel},
	content.KindAbout:    {DefaultAboutHeadline, DefaultAboutDescription},
	content.KindServices: {DefaultServicesHeadline, DefaultServicesSubheadline},
	content.KindFeatured: {DefaultFeaturedHeadline, DefaultFeaturedSubheadline},
	content.KindFooter:   {DefaultFooterDescription, "All rights reserved."},
}

func TestEveryStyle_RendersDefaultsForEmptyProps(t *testing.T) {
	for _, info := range Catalog() {
		for _, style := range info.Styles {
			t.Run(string(info.Kind)+"-"+style.ID, func(t *testing.T) {
				out, err := Dispatch(info.Kind, style.ID, emptyProps(info.Kind))
				require.NoError(t, err)
				assert.Contains(t, out, `class="site-`+string(info.Kind)+" "+string(info.Kind)+"-style-"+style.ID+`"`)
				for _, want := range defaultCopy[info.Kind] {
					assert.Contains(t, out, html.EscapeString(want))
				}
			})
		}
	}
}

func TestEveryStyle_CarriesScopedStyle(t *testing.T) {
	for _, info := range Catalog() {
		for _, style := range info.Styles {
			t.Run(string(info.Kind)+"-"+style.ID, func(t *testing.T) {
				kind := string(info.Kind)
				scope := "." + theme.WrapperClass(kind) + "." + theme.StyleClass(kind, style.ID)
				out := Render(style.ID, richProps(info.Kind, nil))

				open := strings.Index(out, "<style>")
				require.Greater(t, open, strings.Index(out, `class="`+theme.WrapperClass(kind)), "style sits inside the wrapper")
				end := strings.Index(out, "</style>")
				require.Greater(t, end, open)

				rules := strings.Split(out[open+len("<style>"):end], "}")
				require.Greater(t, len(rules), 1)
				for _, r := range rules {
					if strings.TrimSpace(r) == "" {
						continue
					}
					head, _, ok := strings.Cut(r, "{")
					require.True(t, ok, r)
					for _, sel := range strings.Split(head, ",") {
						assert.True(t, strings.HasPrefix(strings.TrimSpace(sel), scope), "unscoped selector %q", sel)
					}
				}
			})
		}
	}
}

func TestDispatch_UnknownStyleFallsBackToDefault(t *testing.T) {
	for _, kind := range content.Kinds {
		p := richProps(kind, nil)
		fallback, err := Dispatch(kind, "nonexistent-id", p)
		require.NoError(t, err)
		def, err := Dispatch(kind, "1", p)
		require.NoError(t, err)
		assert.Equal(t, def, fallback, string(kind))
	}
}

func TestDispatch_RejectsPropsOfAnotherKind(t *testing.T) {
	_, err := Dispatch(content.KindHero, "1", AboutProps{})
	require.Error(t, err)
	_, err = Dispatch(content.KindHero, "1", nil)
	require.Error(t, err)
}

func TestVariantFields_MatchRenderedFlags(t *testing.T) {
	for _, info := range Catalog() {
		for _, style := range info.Styles {
			base := Render(style.ID, richProps(info.Kind, nil))
			declared := map[string]bool{}
			for _, f := range style.Fields {
				declared[f] = true
			}
			for _, flag := range elementFlags[info.Kind] {
				hidden := Render(style.ID, richProps(info.Kind, content.Visibility{flag: false}))
				if declared[flag] {
					assert.NotEqual(t, base, hidden, "%s style %s should render %s", info.Kind, style.ID, flag)
				} else {
					assert.Equal(t, base, hidden, "%s style %s should ignore %s", info.Kind, style.ID, flag)
				}
			}
		}
	}
}

func TestMasterFlag_HidesWholeSection(t *testing.T) {
	for _, kind := range content.Kinds {
		vis := content.Visibility{content.SectionFlag(kind): false, elementFlags[kind][0]: true}
		assert.Empty(t, Render("1", richProps(kind, vis)), string(kind))
	}
}

func TestElementFlag_RemovesOnlyThatElement(t *testing.T) {
	out := Render("2", richProps(content.KindHero, content.Visibility{content.FlagHeroBadge: false}))
	assert.NotContains(t, out, `class="hero-badge`)
	assert.Contains(t, out, `class="hero-headline`)
	assert.Contains(t, out, `class="hero-subheadline`)
	assert.Contains(t, out, `class="hero-cta`)
	assert.Contains(t, out, `class="hero-testimonial`)
}

func TestNavbar_DefaultLinks(t *testing.T) {
	out := Render("1", NavbarProps{BusinessName: "Harbor"})
	assert.Equal(t, 4, strings.Count(out, `class="navbar-link font-body"`))

	want := []string{
		`href="#about">About</a>`,
		`href="#services">Services</a>`,
		`href="#featured">Featured</a>`,
		`href="#contact">Contacts</a>`,
	}
	last := -1
	for _, w := range want {
		i := strings.Index(out, w)
		require.Greater(t, i, last, w)
		last = i
	}

	none := Render("1", NavbarProps{Links: []content.Link{}})
	assert.NotContains(t, none, `class="navbar-links"`)
}

func TestNavbar_ScriptOnlyWithLinks(t *testing.T) {
	assert.Contains(t, Render("3", NavbarProps{}), "<script>")
	assert.NotContains(t, Render("3", NavbarProps{Links: []content.Link{}}), "<script>")
}

func TestHero_CarouselPadsSinglePhoto(t *testing.T) {
	photo := "https://cdn.example.com/only.jpg"
	out := Render("3", HeroProps{Photos: []string{photo}})
	assert.GreaterOrEqual(t, strings.Count(out, `class="hero-tile"`), HeroCarouselMin)
	assert.Equal(t, HeroCarouselMin, strings.Count(out, `src="`+photo+`"`))
	assert.Contains(t, out, "<script>")

	empty := Render("3", HeroProps{})
	assert.NotContains(t, empty, `class="hero-tile"`)
	assert.NotContains(t, empty, "<script>")
}

func TestHero_StyleImageCounts(t *testing.T) {
	photos := []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg", "https://x/4.jpg"}
	assert.Equal(t, 1, strings.Count(Render("1", HeroProps{Photos: photos}), `class="hero-image"`))
	assert.Equal(t, 3, strings.Count(Render("2", HeroProps{Photos: photos}), `class="hero-image"`))
	assert.Equal(t, HeroCarouselMin, strings.Count(Render("3", HeroProps{Photos: photos}), `class="hero-image"`))
}

func TestHero_Defaults(t *testing.T) {
	out := Render("2", HeroProps{BusinessName: "Harbor Bakery", Tagline: "Bread worth waking up for"})
	assert.Contains(t, out, ">Harbor Bakery</h1>")
	assert.Contains(t, out, ">Bread worth waking up for</p>")
	assert.Contains(t, out, `href="#contact">Work with us</a>`)
	assert.Contains(t, out, ">Now welcoming new clients</span>")
	assert.Contains(t, out, html.EscapeString(DefaultHeroQuote))
}

func TestPadCycle(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a", "b"}, padCycle([]string{"a", "b", "c"}, 8))
	assert.Empty(t, padCycle([]string{}, 8))
	long := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	assert.Equal(t, long, padCycle(long, 8))
}

func TestAbout_CapsImagesInPoolOrder(t *testing.T) {
	pool := []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg", "https://x/4.jpg", "https://x/5.jpg"}
	for _, id := range About.IDs() {
		out := Render(id, AboutProps{Photos: pool})
		assert.Equal(t, AboutImageCap, strings.Count(out, `class="about-image"`), id)
		assert.NotContains(t, out, pool[4])
		assert.Less(t, strings.Index(out, pool[0]), strings.Index(out, pool[3]))
	}
}

func TestAbout_HeadlineUsesBusinessName(t *testing.T) {
	out := Render("1", AboutProps{BusinessName: "Harbor Bakery"})
	assert.Contains(t, out, ">About Harbor Bakery</h2>")
	assert.Contains(t, out, ">Our story</p>")
}

func TestFeatured_GalleryCap(t *testing.T) {
	var photos []string
	for i := 0; i < 9; i++ {
		photos = append(photos, "https://x/"+string(rune('a'+i))+".jpg")
	}
	out := Render("1", FeaturedProps{Photos: photos, Products: []Product{}})
	assert.Equal(t, FeaturedGalleryCap, strings.Count(out, `class="featured-image"`))
	assert.NotContains(t, out, `class="product-item`)
}

func TestFeatured_SliderScriptOnlyWithProducts(t *testing.T) {
	assert.Contains(t, Render("3", FeaturedProps{}), "<script>")
	assert.NotContains(t, Render("3", FeaturedProps{Products: []Product{}}), "<script>")
}

func TestServices_AccordionScriptOnlyWithItems(t *testing.T) {
	assert.Contains(t, Render("3", ServicesProps{}), "<script>")
	assert.NotContains(t, Render("3", ServicesProps{Items: []content.ServiceItem{}}), "<script>")
}

func TestPendingImages_RenderPlaceholder(t *testing.T) {
	out := Render("1", AboutProps{Photos: []string{"", "storage:abc", "https://x/ok.jpg"}})
	assert.Equal(t, 2, strings.Count(out, `image-pending"`))
	assert.NotContains(t, out, "storage:abc")
	assert.Contains(t, out, `src="https://x/ok.jpg"`)

	nav := Render("1", NavbarProps{LogoPending: true})
	assert.Contains(t, nav, "navbar-logo image-pending")

	feat := Render("1", FeaturedProps{Products: []Product{{Product: content.Product{Title: "Rye"}, ImagePending: true}}})
	assert.Contains(t, feat, "product-image image-pending")
}

func TestFooter(t *testing.T) {
	out := Render("2", richProps(content.KindFooter, nil))
	assert.Contains(t, out, "© 2024 Harbor Bakery. All rights reserved.")
	assert.Contains(t, out, ">Instagram</a>")
	assert.Contains(t, out, `href="mailto:hello@harbor.example"`)
	assert.Contains(t, out, `href="tel:555%200100"`)
	assert.Contains(t, out, "1 Quay Street")
	assert.Contains(t, out, html.EscapeString(DefaultFooterDescription))
	assert.Contains(t, out, `id="contact"`)

	noContact := Render("3", FooterProps{Year: 2024})
	assert.NotContains(t, noContact, `class="footer-contact`)
	assert.NotContains(t, noContact, `class="footer-social"`)
}

func TestPlatformLabel(t *testing.T) {
	assert.Equal(t, "Instagram", PlatformLabel("instagram"))
	assert.Equal(t, "Tiktok", PlatformLabel(" TIKTOK "))
}

func TestEscaping(t *testing.T) {
	out := Render("1", HeroProps{Headline: "<script>alert(1)</script>", CTA: &content.CTA{Link: "javascript:alert(1)"}})
	assert.NotContains(t, out, "<script>alert(1)")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `class="hero-cta font-body" href="#"`)
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, len(content.Kinds))
	for i, info := range cat {
		assert.Equal(t, content.Kinds[i], info.Kind)
		assert.Equal(t, []string{"1", "2", "3"}, []string{info.Styles[0].ID, info.Styles[1].ID, info.Styles[2].ID})
		assert.NotEmpty(t, info.Label)
	}
	assert.Equal(t, "Hero", cat[1].Label)

	assert.True(t, HasStyle(content.KindHero, "3"))
	assert.False(t, HasStyle(content.KindHero, "9"))
	assert.Equal(t, Fields(content.KindHero, "1"), Fields(content.KindHero, "9"))
	assert.Contains(t, Fields(content.KindHero, "2"), content.FlagHeroBadge)
	assert.NotContains(t, Fields(content.KindHero, "3"), content.FlagHeroBadge)
}

func TestNewTable_RequiresDefaultFirst(t *testing.T) {
	assert.Panics(t, func() {
		NewTable(content.KindHero, Variant[HeroProps]{ID: "2", Render: func(HeroProps) string { return "" }})
	})
	assert.Panics(t, func() {
		r := func(HeroProps) string { return "" }
		NewTable(content.KindHero, Variant[HeroProps]{ID: "1", Render: r}, Variant[HeroProps]{ID: "1", Render: r})
	})
}

func TestHighlightTargets(t *testing.T) {
	assert.Equal(t, []Target{{Selector: ".site-hero .hero-badge"}}, HighlightTargets("hero_badge"))
	assert.Equal(t, []Target{{Selector: ".site-about"}}, HighlightTargets("about_section"))
	assert.Equal(t, []Target{{Selector: ".site-footer"}}, HighlightTargets("footer"))
	assert.Equal(t, []Target{{Selector: ".site-featured .product-image"}}, HighlightTargets("featured.products.2.image"))
	assert.Nil(t, HighlightTargets("unknown"))

	got := HighlightTargets("businessName")
	got[0].Selector = "mutated"
	assert.NotEqual(t, "mutated", HighlightTargets("businessName")[0].Selector)
	assert.NotEmpty(t, HighlightFields())
}
