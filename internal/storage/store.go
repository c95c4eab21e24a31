// Package storage keeps uploaded images in a content-addressable store and
// serves them to the editor through upload targets and batched resolution.
package storage

import (
	"context"
	"errors"
	"time"
)

// ObjectStore persists image bytes by content hash.
type ObjectStore interface {
	// Put stores an object and returns its id. Storing identical bytes twice
	// returns the existing id without writing.
	Put(ctx context.Context, obj *Object) (id string, err error)

	// Get retrieves an object by id. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Object, error)

	// Exists checks if an object with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes an object. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all objects with the given content type, or
	// every id when contentType is empty.
	List(ctx context.Context, contentType string) ([]string, error)

	Close() error
}

// Object is a stored image with its metadata.
type Object struct {
	// ID is the SHA256 of Data, hex encoded.
	ID          string
	ContentType string
	Size        int64
	Data        []byte
	Metadata    Metadata
}

// Metadata is persisted next to each object.
type Metadata struct {
	ContentType string            `json:"content_type"`
	Filename    string            `json:"filename,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// ErrNotFound is returned when an object doesn't exist.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return "object not found: " + e.ID
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
