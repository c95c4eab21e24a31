// Package errors provides classified error primitives used across sitebuilder.
//
// A ClassifiedError carries a category (validation, storage, persistence, ...),
// a severity and a retry hint so that HTTP handlers and the CLI can decide how
// to present a failure without string matching.
//
// Example usage:
//
//	err := errors.StorageError("upload transfer failed").
//		WithContext("field", "about_images").
//		WithCause(cause).
//		Build()
package errors
