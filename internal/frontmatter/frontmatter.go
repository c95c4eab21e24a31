// Package frontmatter splits Markdown profiles into a YAML header and a body.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML header but
// never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a Markdown file split at its `---` delimited header.
type Document struct {
	Header    []byte
	Body      []byte
	HasHeader bool
	// Newline is "\n" or "\r\n", detected from the first line ending.
	Newline string
}

// Parse splits content. Content without a leading delimiter is all body.
func Parse(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return doc, nil
	}
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Document{Header: []byte{}, Body: rest[len(open):], HasHeader: true, Newline: nl}, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}
	return Document{
		Header:    rest[:idx+len(nl)],
		Body:      rest[idx+len(closing):],
		HasHeader: true,
		Newline:   nl,
	}, nil
}

// Decode unmarshals the header into out. An empty header leaves out untouched.
func (d Document) Decode(out any) error {
	if len(bytes.TrimSpace(d.Header)) == 0 {
		return nil
	}
	return yaml.Unmarshal(d.Header, out)
}

// Bytes reassembles the document.
func (d Document) Bytes() []byte {
	if !d.HasHeader {
		return d.Body
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(d.Header)+len(d.Body))
	out = append(out, delim...)
	out = append(out, d.Header...)
	out = append(out, delim...)
	return append(out, d.Body...)
}

// Build renders v as a YAML header followed by body.
func Build(v any, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return Document{Header: buf.Bytes(), Body: body, HasHeader: true, Newline: "\n"}.Bytes(), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
