package theme

// Utility classes generators attach to text nodes.
const (
	ClassHeading = "font-heading"
	ClassBody    = "font-body"
	// ClassPending marks an image slot whose reference has not resolved yet.
	ClassPending = "image-pending"
)

// SectionKinds lists section kinds in document order.
var SectionKinds = []string{"navbar", "hero", "about", "services", "featured", "footer"}

// WrapperClass returns the stable root class of a section kind.
func WrapperClass(kind string) string { return "site-" + kind }

// StyleClass returns the modifier class of a section style variant.
func StyleClass(kind, styleID string) string { return kind + "-style-" + styleID }
