package sections

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("sections").Funcs(template.FuncMap{
	"href":    safeHref,
	"ordinal": func(i int) string { return fmt.Sprintf("%02d", i+1) },
}).ParseFS(templateFS, "templates/*.html"))

// root is the wrapper attributes every fragment starts with.
type root struct {
	Kind  string
	Style string
	Class string
}

func newRoot(kind content.SectionKind, style string) root {
	k := string(kind)
	return root{Kind: k, Style: style, Class: theme.WrapperClass(k) + " " + theme.StyleClass(k, style)}
}

// image is one rendered image slot.
type image struct {
	URL     string
	Alt     string
	Class   string
	Pending bool
}

func newImage(url, alt, class string) image {
	return image{URL: url, Alt: alt, Class: class, Pending: url == "" || content.IsOpaque(url)}
}

// newImages renders up to limit slots; limit <= 0 keeps all.
func newImages(urls []string, alt, class string, limit int) []image {
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	out := make([]image, 0, len(urls))
	for _, u := range urls {
		out = append(out, newImage(u, alt, class))
	}
	return out
}

// padCycle repeats items in order until there are at least min of them.
// An empty input stays empty.
func padCycle[T any](items []T, minimum int) []T {
	if len(items) == 0 || len(items) >= minimum {
		return items
	}
	out := make([]T, 0, minimum)
	for i := 0; len(out) < minimum; i++ {
		out = append(out, items[i%len(items)])
	}
	return out
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// safeHref passes link targets the generators accept and neutralises the
// rest. html/template would otherwise rewrite tel: links.
func safeHref(s string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case lower == "":
		return "#"
	case strings.HasPrefix(lower, "#"), strings.HasPrefix(lower, "/"),
		strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"),
		content.IsFetchable(lower):
		// #nosec G203 -- scheme allow-listed above
		return template.URL(strings.TrimSpace(s))
	}
	return "#"
}

// execute renders a named template. The templates are compiled into the
// binary, so a failure is a programming error; it is logged and the section
// renders empty rather than breaking the page.
func execute(name string, data any) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		slog.Error("Section template failed", slog.String("template", name), logfields.Error(err))
		return ""
	}
	return b.String()
}
