// Package content defines the business-profile record that drives site
// generation, along with its visibility flags, image references and style
// selection.
package content

import "time"

// Identity field limits.
const (
	MaxBusinessName  = 100
	MaxTagline       = 200
	MaxAbout         = 800
	IntakeAboutLimit = 500
)

// Record is the business profile. Every field except the identity triple is
// optional; generators supply defaults for anything missing.
//
// The image arrays (HeroImages, AboutImages, FeaturedImages) distinguish nil
// from empty: nil falls back to the submission's photo pool, an explicit
// empty slice renders no images.
type Record struct {
	BusinessName string `json:"businessName" yaml:"businessName"`
	Tagline      string `json:"tagline" yaml:"tagline"`
	About        string `json:"about" yaml:"about"`

	Logo        string `json:"logo,omitempty" yaml:"logo,omitempty"`
	NavbarLinks []Link `json:"navbar_links,omitempty" yaml:"navbar_links,omitempty"`

	HeroHeadline    string       `json:"hero_headline,omitempty" yaml:"hero_headline,omitempty"`
	HeroSubheadline string       `json:"hero_subheadline,omitempty" yaml:"hero_subheadline,omitempty"`
	HeroCTA         *CTA         `json:"hero_cta,omitempty" yaml:"hero_cta,omitempty"`
	HeroBadge       string       `json:"hero_badge,omitempty" yaml:"hero_badge,omitempty"`
	HeroTestimonial *Testimonial `json:"hero_testimonial,omitempty" yaml:"hero_testimonial,omitempty"`
	HeroImages      Gallery      `json:"hero_images" yaml:"hero_images,omitempty"`

	AboutHeadline    string   `json:"about_headline,omitempty" yaml:"about_headline,omitempty"`
	AboutDescription string   `json:"about_description,omitempty" yaml:"about_description,omitempty"`
	AboutTagline     string   `json:"about_tagline,omitempty" yaml:"about_tagline,omitempty"`
	AboutTags        []string `json:"about_tags,omitempty" yaml:"about_tags,omitempty"`
	AboutImages      Gallery  `json:"about_images" yaml:"about_images,omitempty"`

	Services       *Services `json:"services,omitempty" yaml:"services,omitempty"`
	Featured       *Featured `json:"featured,omitempty" yaml:"featured,omitempty"`
	FeaturedImages Gallery   `json:"featured_images" yaml:"featured_images,omitempty"`

	Footer  *Footer  `json:"footer,omitempty" yaml:"footer,omitempty"`
	Contact *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`

	Visibility Visibility     `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Styles     StyleSelection `json:"styles" yaml:"styles"`
}

// Gallery is an ordered list of image references. A nil Gallery is unset and
// is left out of YAML output; an empty one is written as [].
type Gallery []string

// IsZero reports whether g is unset.
func (g Gallery) IsZero() bool { return g == nil }

// Link is a navigation entry.
type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

// CTA is the hero call to action.
type CTA struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Link  string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Testimonial is a short customer quote.
type Testimonial struct {
	Quote  string `json:"quote,omitempty" yaml:"quote,omitempty"`
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Services is the methodology block: what the business offers.
type Services struct {
	Headline    string        `json:"headline,omitempty" yaml:"headline,omitempty"`
	Subheadline string        `json:"subheadline,omitempty" yaml:"subheadline,omitempty"`
	Image       string        `json:"image,omitempty" yaml:"image,omitempty"`
	Items       []ServiceItem `json:"items" yaml:"items"`
}

// ServiceItem is one offered service.
type ServiceItem struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Featured is the collection block: highlighted products or work.
type Featured struct {
	Headline    string    `json:"headline,omitempty" yaml:"headline,omitempty"`
	Subheadline string    `json:"subheadline,omitempty" yaml:"subheadline,omitempty"`
	Products    []Product `json:"products" yaml:"products"`
}

// Product is one collection item.
type Product struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Testimonial *Testimonial `json:"testimonial,omitempty" yaml:"testimonial,omitempty"`
}

// Footer holds footer copy and social links.
type Footer struct {
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Social      []SocialLink `json:"social,omitempty" yaml:"social,omitempty"`
}

// SocialLink points at a social profile.
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

// Contact holds the business contact details.
type Contact struct {
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// IsZero reports whether no contact detail is set.
func (c *Contact) IsZero() bool {
	return c == nil || (c.Phone == "" && c.Email == "" && c.Address == "")
}

// Submission pairs a record with the photo pool collected during intake.
type Submission struct {
	ID        string    `json:"id"`
	Record    Record    `json:"record"`
	Photos    []string  `json:"photos"`
	UpdatedAt time.Time `json:"updated_at"`
}
