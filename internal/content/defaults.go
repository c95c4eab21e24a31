package content

// Default structural content back-filled into partial records.
var (
	defaultServiceItems = []ServiceItem{
		{Name: "Consultation", Description: "We listen first and shape a plan around what you need."},
		{Name: "Delivery", Description: "Careful, on-time work from people who know the craft."},
		{Name: "Follow-up", Description: "We stay in touch to make sure everything keeps working."},
	}
	defaultProducts = []Product{
		{Title: "Signature offering", Description: "The work we are best known for."},
		{Title: "Seasonal favourite", Description: "A customer favourite, refreshed every season."},
		{Title: "Custom request", Description: "Made to order, just the way you want it."},
	}
)

// DefaultNavbarLinks returns the four in-page links used when a record has
// none.
func DefaultNavbarLinks() []Link {
	return []Link{
		{Label: "About", Href: "#about"},
		{Label: "Services", Href: "#services"},
		{Label: "Featured", Href: "#featured"},
		{Label: "Contacts", Href: "#contact"},
	}
}

// DefaultServiceItems returns the methodology items used for new records.
func DefaultServiceItems() []ServiceItem {
	return append([]ServiceItem(nil), defaultServiceItems...)
}

// DefaultProducts returns the collection items used for new records.
func DefaultProducts() []Product {
	return append([]Product(nil), defaultProducts...)
}

// EnsureDefaults back-fills missing structural content: the services
// (methodology) block, featured products (collection items), the footer
// object, the visibility map, navbar links and the style selection. It never
// overwrites existing values and reports whether anything was added.
func EnsureDefaults(r *Record) bool {
	changed := false
	if r.Services == nil {
		r.Services = &Services{}
		changed = true
	}
	if r.Services.Items == nil {
		r.Services.Items = DefaultServiceItems()
		changed = true
	}
	if r.Featured == nil {
		r.Featured = &Featured{}
		changed = true
	}
	if r.Featured.Products == nil {
		r.Featured.Products = DefaultProducts()
		changed = true
	}
	if r.Footer == nil {
		r.Footer = &Footer{}
		changed = true
	}
	if r.Visibility == nil {
		r.Visibility = Visibility{}
		changed = true
	}
	if r.NavbarLinks == nil {
		r.NavbarLinks = DefaultNavbarLinks()
		changed = true
	}
	if r.Styles.Sections == nil {
		defaults := DefaultStyles()
		r.Styles.Sections = defaults.Sections
		if r.Styles.ColorScheme == "" {
			r.Styles.ColorScheme = defaults.ColorScheme
		}
		if r.Styles.FontPairing == "" {
			r.Styles.FontPairing = defaults.FontPairing
		}
		changed = true
	}
	return changed
}
