package content

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Violation describes one invalid field.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

// ValidateOptions tunes limits that differ between consumers.
type ValidateOptions struct {
	// AboutLimit caps the about text; zero means MaxAbout.
	AboutLimit int
}

// Validate checks r with editor limits.
func Validate(r Record) error {
	return ValidateWith(r, ValidateOptions{})
}

// ValidateWith checks r and returns a classified validation error listing
// every violation, or nil.
func ValidateWith(r Record, opts ValidateOptions) error {
	violations := Violations(r, opts)
	if len(violations) == 0 {
		return nil
	}
	parts := make([]string, len(violations))
	fields := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
		fields[i] = v.Field
	}
	return ferrors.ValidationError("invalid record: "+strings.Join(parts, "; ")).
		WithContext("field", fields[0]).
		WithContext("fields", fields).
		Build()
}

// Violations returns every problem found in r, in field order.
func Violations(r Record, opts ValidateOptions) []Violation {
	aboutLimit := opts.AboutLimit
	if aboutLimit <= 0 {
		aboutLimit = MaxAbout
	}

	var out []Violation
	add := func(field, format string, args ...any) {
		out = append(out, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	required := func(field, value string, limit int) {
		switch n := utf8.RuneCountInString(strings.TrimSpace(value)); {
		case n == 0:
			add(field, "is required")
		case utf8.RuneCountInString(value) > limit:
			add(field, "must be at most %d characters", limit)
		}
	}

	required("businessName", r.BusinessName, MaxBusinessName)
	required("tagline", r.Tagline, MaxTagline)
	required("about", r.About, aboutLimit)

	for i, l := range r.NavbarLinks {
		if !validHref(l.Href) {
			add(fmt.Sprintf("navbar_links.%d.href", i), "must be a URL or #anchor")
		}
	}
	if r.HeroCTA != nil && r.HeroCTA.Link != "" && !validHref(r.HeroCTA.Link) {
		add("hero_cta.link", "must be a URL or #anchor")
	}
	if r.Contact != nil && r.Contact.Email != "" {
		if _, err := mail.ParseAddress(r.Contact.Email); err != nil {
			add("contact.email", "is not a valid email address")
		}
	}
	if r.Footer != nil {
		for i, s := range r.Footer.Social {
			if !IsFetchable(s.URL) {
				add(fmt.Sprintf("footer.social.%d.url", i), "must be an http(s) URL")
			}
		}
	}
	return out
}

func validHref(href string) bool {
	switch {
	case href == "":
		return false
	case strings.HasPrefix(href, "#"):
		return len(href) > 1
	case IsFetchable(href):
		return true
	case strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"):
		return len(href) > strings.Index(href, ":")+1
	case strings.HasPrefix(href, "/"):
		return true
	}
	return false
}
