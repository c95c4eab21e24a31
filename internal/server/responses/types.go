// Package responses defines request and response bodies of the editor HTTP API.
package responses

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
)

// RecordResponse is the editor's draft as seen by the client.
type RecordResponse struct {
	ID       string         `json:"id"`
	State    string         `json:"state"`
	Revision uint64         `json:"revision"`
	Record   content.Record `json:"record"`
	Photos   []string       `json:"photos,omitempty"`
	// Pending counts image references the last preview could not resolve.
	Pending   int      `json:"pending"`
	Uploading []string `json:"uploading,omitempty"`
}

// ValueRequest sets a single string field.
type ValueRequest struct {
	Value string `json:"value"`
}

// VisibilityRequest sets a flag explicitly.
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// VisibilityResponse reports a flag after a change.
type VisibilityResponse struct {
	Flag    string `json:"flag"`
	Visible bool   `json:"visible"`
}

// StyleRequest selects a style variant.
type StyleRequest struct {
	Style string `json:"style"`
}

// ThemeRequest selects the palette and font pairing. Empty fields are left alone.
type ThemeRequest struct {
	ColorScheme string `json:"color_scheme,omitempty"`
	FontPairing string `json:"font_pairing,omitempty"`
}

// UploadResponse carries the reference stored for an upload.
type UploadResponse struct {
	Field string `json:"field"`
	Ref   string `json:"ref"`
}

// FocusRequest highlights the elements a field paints into.
type FocusRequest struct {
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
}

// SchemeInfo describes a color scheme.
type SchemeInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Dark      bool   `json:"dark,omitempty"`
}

// PairingInfo describes a font pairing.
type PairingInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// StylesResponse is the style registry plus the theme choices.
type StylesResponse struct {
	Sections []sections.KindInfo `json:"sections"`
	Schemes  []SchemeInfo        `json:"schemes"`
	Pairings []PairingInfo       `json:"pairings"`
	Flags    []string            `json:"flags"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	Uptime         float64   `json:"uptime"`
	EditorState    string    `json:"editor_state"`
	PreviewClients int       `json:"preview_clients"`
	PendingAssets  int       `json:"pending_assets"`
}
