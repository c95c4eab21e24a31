// Package events publishes notifications about saved submissions.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// DefaultSubject is the subject saved-record events go to.
const DefaultSubject = "sitebuilder.submissions.saved"

// Saved is published after a record was persisted.
type Saved struct {
	SubmissionID string                 `json:"submission_id"`
	BusinessName string                 `json:"business_name"`
	Styles       content.StyleSelection `json:"styles"`
	SavedAt      time.Time              `json:"saved_at"`
}

// Publisher delivers saved-record events.
type Publisher interface {
	PublishSaved(ctx context.Context, ev Saved) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) PublishSaved(context.Context, Saved) error { return nil }
func (Noop) Close() error                              { return nil }

// Persister stores a record under a submission id.
type Persister interface {
	Save(ctx context.Context, id string, r content.Record) error
}

// NotifyingPersister publishes a Saved event after each successful save.
// Publish failures are logged and never fail the save.
type NotifyingPersister struct {
	next      Persister
	publisher Publisher
	now       func() time.Time
}

// NewNotifyingPersister wraps next. A nil publisher publishes nothing.
func NewNotifyingPersister(next Persister, publisher Publisher) *NotifyingPersister {
	if publisher == nil {
		publisher = Noop{}
	}
	return &NotifyingPersister{next: next, publisher: publisher, now: time.Now}
}

// Save implements the editor persister.
func (p *NotifyingPersister) Save(ctx context.Context, id string, r content.Record) error {
	if p.next == nil {
		return ferrors.InternalError("no persister configured").Build()
	}
	if err := p.next.Save(ctx, id, r); err != nil {
		return err
	}
	ev := Saved{
		SubmissionID: id,
		BusinessName: r.BusinessName,
		Styles:       r.Styles.Clone(),
		SavedAt:      p.now().UTC(),
	}
	if err := p.publisher.PublishSaved(ctx, ev); err != nil {
		slog.Warn("Failed to publish saved event", logfields.SubmissionID(id), logfields.Error(err))
	}
	return nil
}

func encode(ev Saved) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal event").
			WithContext("submission_id", ev.SubmissionID).
			Build()
	}
	return data, nil
}
