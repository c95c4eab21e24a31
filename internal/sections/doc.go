// Package sections renders the page sections of a generated site.
//
// Each section kind (navbar, hero, about, services, featured, footer) has a
// table of style variants. A variant turns typed props into an HTML fragment
// rooted at one wrapper element carrying the kind's stable class
// (theme.WrapperClass) and its style class (theme.StyleClass). Generators
// supply default copy for every missing text field and never fail on
// missing data; unknown style ids resolve to style "1" before a generator
// runs.
//
// Props carry already resolved image URLs. An empty string or an opaque
// reference in an image slot renders a pending placeholder.
package sections
