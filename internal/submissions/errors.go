package submissions

import (
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Sentinel errors for submission store failures. Returned errors wrap the
// driver error and match these with errors.Is.
var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = ferrors.PersistenceError("could not open submission database").Build()

	// ErrInitializeSchemaFailed indicates the schema could not be created.
	ErrInitializeSchemaFailed = ferrors.PersistenceError("failed to initialize submission schema").Build()

	// ErrSaveFailed indicates writing a record failed.
	ErrSaveFailed = ferrors.PersistenceError("failed to save submission").Build()

	// ErrQueryFailed indicates reading submissions failed.
	ErrQueryFailed = ferrors.PersistenceError("failed to query submissions").Build()

	// ErrMarshalFailed indicates a record could not be encoded or decoded.
	ErrMarshalFailed = ferrors.PersistenceError("failed to encode submission record").Build()
)

func wrap(sentinel *ferrors.ClassifiedError, err error, id string) error {
	b := ferrors.WrapError(err, sentinel.Category(), sentinel.Message())
	if id != "" {
		b = b.WithContext("submission_id", id)
	}
	if sentinel != ErrMarshalFailed {
		b = b.Retryable()
	}
	return b.Build()
}
