// Package submissions persists edited site records in SQLite, keeping the
// current record per submission and an append-only revision history.
package submissions

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// Store persists submissions.
type Store interface {
	// Save replaces the current record of id and appends a revision. The
	// submission is created when it doesn't exist. Photos are kept.
	Save(ctx context.Context, id string, rec content.Record) error

	// Import creates a submission with its photo pool. An empty ID gets a
	// generated one, which is returned.
	Import(ctx context.Context, sub content.Submission) (string, error)

	// Load returns the current state of a submission.
	Load(ctx context.Context, id string) (content.Submission, error)

	// List returns submissions, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Revisions returns the saved history of id, oldest first.
	Revisions(ctx context.Context, id string) ([]Revision, error)

	Close() error
}

// Summary is a listing entry.
type Summary struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Revision     int       `json:"revision"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Revision is one saved record.
type Revision struct {
	Number  int            `json:"number"`
	SavedAt time.Time      `json:"saved_at"`
	Record  content.Record `json:"record"`
}
