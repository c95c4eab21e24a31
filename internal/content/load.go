package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// Profile is the on-disk form of a submission: the record plus its photo pool.
type Profile struct {
	Record `yaml:",inline"`
	Photos []string `json:"photos,omitempty" yaml:"photos,omitempty"`
}

// Format is a profile file encoding.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	}
	return "", false
}

// LoadFile reads a profile from disk.
func LoadFile(path string) (Profile, error) {
	format, ok := FormatFor(path)
	if !ok {
		return Profile{}, ferrors.ValidationError("unsupported profile format").
			WithContext("path", path).
			Build()
	}
	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read profile").
			WithContext("path", path).
			Build()
	}
	p, err := Decode(data, format)
	if err != nil {
		if c, ok := ferrors.AsClassified(err); ok {
			return Profile{}, c.WithContext("path", path)
		}
		return Profile{}, err
	}
	return p, nil
}

// Decode parses profile bytes. In Markdown profiles the YAML frontmatter
// holds the record; the body becomes the about text when none is set, and
// body images seed an unset about gallery.
func Decode(data []byte, format Format) (Profile, error) {
	var p Profile
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return Profile{}, malformed(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, malformed(err)
		}
	case FormatMarkdown:
		doc, err := frontmatter.Parse(data)
		if err != nil {
			return Profile{}, malformed(err)
		}
		if err := doc.Decode(&p); err != nil {
			return Profile{}, malformed(err)
		}
		plain, images := bodyText(doc.Body)
		if p.About == "" {
			p.About = plain
		}
		if p.AboutImages == nil && len(images) > 0 {
			p.AboutImages = images
		}
	default:
		return Profile{}, ferrors.ValidationError("unsupported profile format").
			WithContext("format", string(format)).
			Build()
	}
	return p, nil
}

// Encode renders a profile in format. Markdown profiles carry the whole
// record in the frontmatter and keep body as the document body.
func Encode(p Profile, format Format, body []byte) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(p, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(p)
	case FormatMarkdown:
		data, err = frontmatter.Build(p, body)
	default:
		return nil, ferrors.ValidationError("unsupported profile format").
			WithContext("format", string(format)).
			Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode profile").Build()
	}
	return data, nil
}

// SaveFile writes p to path in the format its extension names. The body of
// an existing Markdown profile is kept.
func SaveFile(path string, p Profile) error {
	format, ok := FormatFor(path)
	if !ok {
		return ferrors.ValidationError("unsupported profile format").
			WithContext("path", path).
			Build()
	}
	var body []byte
	if format == FormatMarkdown {
		// #nosec G304 -- path is chosen by the operator
		if old, err := os.ReadFile(path); err == nil {
			if doc, err := frontmatter.Parse(old); err == nil {
				body = doc.Body
			}
		}
	}
	data, err := Encode(p, format, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create profile directory").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write profile").
			WithContext("path", path).
			Build()
	}
	return nil
}

func malformed(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, "malformed profile").Build()
}

// bodyText flattens a Markdown body into paragraphs of plain text and
// collects image destinations that are usable references.
func bodyText(body []byte) (string, []string) {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var (
		paragraphs []string
		current    strings.Builder
		images     []string
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
		current.Reset()
	}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.Paragraph, *gmast.Heading, *gmast.TextBlock:
			if !entering {
				flush()
			}
		case *gmast.Image:
			if entering {
				if dest := string(node.Destination); IsFetchable(dest) || IsOpaque(dest) {
					images = append(images, dest)
				}
			}
			// Alt text is not prose.
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			if entering {
				current.Write(node.Segment.Value(body))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteByte(' ')
				}
			}
		case *gmast.String:
			if entering {
				current.Write(node.Value)
			}
		}
		return gmast.WalkContinue, nil
	})
	flush()
	return strings.Join(paragraphs, "\n\n"), images
}
