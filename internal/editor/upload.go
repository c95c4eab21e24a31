package editor

import (
	"context"
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// ErrUploadInFlight is returned when a field already has an upload running.
var ErrUploadInFlight = ferrors.ConflictError("upload already in flight for field").Build()

// Uploading reports whether field has an upload in flight.
func (c *Controller) Uploading(field content.ImageField) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading[field]
}

// Upload stores f through the storage collaborator and records the returned
// reference in field: it replaces a single-image field and is appended to a
// gallery. Only one upload per field may run at a time. On failure the field
// keeps its previous value.
func (c *Controller) Upload(ctx context.Context, field content.ImageField, f storage.File) (string, error) {
	c.mu.Lock()
	if !field.Valid(&c.draft) {
		c.mu.Unlock()
		return "", unknownField("image field", string(field))
	}
	if c.uploading[field] {
		c.mu.Unlock()
		return "", ErrUploadInFlight.WithContext("field", string(field))
	}
	c.uploading[field] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.uploading, field)
		c.mu.Unlock()
	}()

	ref, err := c.transfer(ctx, f)
	if err != nil {
		c.recorder.IncUpload(false)
		c.logger.WarnContext(ctx, "Upload failed", logfields.Field(string(field)), logfields.Error(err))
		return "", err
	}

	err = c.mutate(func(r *content.Record) error {
		refs := []string{ref}
		if !field.Single() {
			refs = append(slices.Clone(r.Images(field)), ref)
		}
		if !r.SetImages(field, refs) {
			// the product was removed while the upload ran
			return ferrors.ConflictError("image slot no longer exists").
				WithContext("field", string(field)).
				Build()
		}
		return nil
	})
	if err != nil {
		c.recorder.IncUpload(false)
		return "", err
	}
	c.recorder.IncUpload(true)
	c.logger.InfoContext(ctx, "Uploaded image", logfields.Field(string(field)), logfields.StorageID(ref))
	return ref, nil
}

func (c *Controller) transfer(ctx context.Context, f storage.File) (string, error) {
	if _, err := c.limits.Check(f); err != nil {
		return "", err
	}
	if c.storage == nil {
		return "", ferrors.InternalError("no storage collaborator configured").Build()
	}
	target, err := c.storage.RequestUploadTarget(ctx)
	if err != nil {
		return "", classify(err, "request upload target")
	}
	id, err := c.storage.Transfer(ctx, target, f)
	if err != nil {
		return "", classify(err, "transfer upload")
	}
	return content.FormatRef(c.scheme, id), nil
}

func classify(err error, msg string) error {
	if ferrors.IsClassified(err) {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryStorage, msg).UserAction().Build()
}

// RemoveImage deletes the image at index from field. Removing the last
// gallery image leaves an explicit empty gallery, which no longer falls back
// to the shared photo pool.
func (c *Controller) RemoveImage(field content.ImageField, index int) error {
	return c.mutate(func(r *content.Record) error {
		if !field.Valid(r) {
			return unknownField("image field", string(field))
		}
		imgs := r.Images(field)
		if index < 0 || index >= len(imgs) {
			return outOfRange(string(field), index, len(imgs))
		}
		r.SetImages(field, slices.Delete(slices.Clone(imgs), index, index+1))
		return nil
	})
}
