package content

import (
	"regexp"
	"strings"
)

// DefaultRefScheme is the scheme the editor stores uploads under.
const DefaultRefScheme = "storage"

var opaqueRef = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*):([^\s/][^\s]*)$`)

// Ref is a parsed image reference.
type Ref struct {
	Raw    string
	Scheme string
	ID     string
	// Fetchable refs are http(s) URLs usable as-is.
	Fetchable bool
}

// ParseRef classifies an image value. Values that are neither an http(s)
// URL nor a <scheme>:<id> reference report ok=false.
func ParseRef(s string) (Ref, bool) {
	if IsFetchable(s) {
		return Ref{Raw: s, Fetchable: true}, true
	}
	m := opaqueRef.FindStringSubmatch(s)
	if m == nil {
		return Ref{Raw: s}, false
	}
	return Ref{Raw: s, Scheme: strings.ToLower(m[1]), ID: m[2]}, true
}

// IsFetchable reports whether s is an http or https URL.
func IsFetchable(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsOpaque reports whether s must be resolved before display.
func IsOpaque(s string) bool {
	r, ok := ParseRef(s)
	return ok && !r.Fetchable
}

// FormatRef builds an opaque reference.
func FormatRef(scheme, id string) string {
	if scheme == "" {
		scheme = DefaultRefScheme
	}
	return scheme + ":" + id
}
