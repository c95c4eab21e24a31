package storage

import (
	"mime"
	"net/http"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DefaultMaxBytes caps a single upload.
const DefaultMaxBytes int64 = 10 << 20

// DefaultAllowedTypes are the image types browsers render inline.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// File is an image handed to an upload target.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Limits bound what an upload target accepts.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultLimits returns DefaultMaxBytes and DefaultAllowedTypes.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, AllowedTypes: slices.Clone(DefaultAllowedTypes)}
}

// Check validates f and returns its effective content type. A missing or
// generic declared type is replaced by the sniffed one.
func (l Limits) Check(f File) (string, error) {
	if len(f.Data) == 0 {
		return "", ferrors.ValidationError("upload is empty").
			WithContext("file", f.Name).
			Build()
	}
	if l.MaxBytes > 0 && int64(len(f.Data)) > l.MaxBytes {
		return "", ferrors.ValidationError("upload exceeds size limit").
			WithContext("file", f.Name).
			WithContext("size", len(f.Data)).
			WithContext("limit", l.MaxBytes).
			Build()
	}

	ct := mediaType(f.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = sniff(f.Data)
	}
	if len(l.AllowedTypes) > 0 && !slices.Contains(l.AllowedTypes, ct) {
		return "", ferrors.ValidationError("unsupported image type").
			WithContext("file", f.Name).
			WithContext("content_type", ct).
			Build()
	}
	return ct, nil
}

func mediaType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func sniff(data []byte) string {
	return mediaType(http.DetectContentType(data))
}
