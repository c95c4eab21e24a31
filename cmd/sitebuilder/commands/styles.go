package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/sitebuilder/internal/sections"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// StylesCmd lists the style registry.
type StylesCmd struct {
	JSON bool `name:"json" help:"Print the catalog as JSON"`
}

func (s *StylesCmd) Run(_ *Global, _ *CLI) error {
	return printStyles(os.Stdout, s.JSON)
}

func printStyles(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections.Catalog())
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SECTION\tSTYLE\tLABEL\tFIELDS")
	for _, k := range sections.Catalog() {
		for _, st := range k.Styles {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.Kind, st.ID, st.Label, strings.Join(st.Fields, ","))
		}
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "SCHEME\tLABEL\tPRIMARY\tACCENT")
	for _, p := range theme.Schemes() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Label, p.Primary, p.Accent)
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "PAIRING\tLABEL\tHEADING\tBODY")
	for _, p := range theme.Pairings() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Label, p.Heading, p.Body)
	}
	return tw.Flush()
}
