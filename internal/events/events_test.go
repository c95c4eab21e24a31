package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

type fakeConn struct {
	mu         sync.Mutex
	published  map[string][][]byte
	publishErr error
	flushErr   error
	drained    bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	if c.published == nil {
		c.published = map[string][][]byte{}
	}
	c.published[subject] = append(c.published[subject], data)
	return nil
}

func (c *fakeConn) FlushWithContext(context.Context) error { return c.flushErr }

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

type recordingPublisher struct {
	events []Saved
	err    error
}

func (p *recordingPublisher) PublishSaved(_ context.Context, ev Saved) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fakeStore struct {
	saved map[string]content.Record
	err   error
}

func (s *fakeStore) Save(_ context.Context, id string, r content.Record) error {
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = map[string]content.Record{}
	}
	s.saved[id] = r
	return nil
}

func TestNATSPublisher_PublishSaved(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "")
	assert.Equal(t, DefaultSubject, p.Subject())

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := Saved{SubmissionID: "sub-1", BusinessName: "Harbor Bakery", Styles: content.DefaultStyles(), SavedAt: at}
	require.NoError(t, p.PublishSaved(context.Background(), ev))

	msgs := fc.published[DefaultSubject]
	require.Len(t, msgs, 1)
	var got Saved
	require.NoError(t, json.Unmarshal(msgs[0], &got))
	assert.Equal(t, "sub-1", got.SubmissionID)
	assert.Equal(t, "Harbor Bakery", got.BusinessName)
	assert.Equal(t, "default", got.Styles.ColorScheme)
	assert.True(t, at.Equal(got.SavedAt))

	require.NoError(t, p.Close())
	assert.True(t, fc.drained)
}

func TestNATSPublisher_Failures(t *testing.T) {
	fc := &fakeConn{publishErr: errors.New("connection closed")}
	p := newNATSPublisher(fc, "custom.subject")
	err := p.PublishSaved(context.Background(), Saved{SubmissionID: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))

	fc = &fakeConn{flushErr: context.DeadlineExceeded}
	p = newNATSPublisher(fc, "custom.subject")
	err = p.PublishSaved(context.Background(), Saved{SubmissionID: "x"})
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.CanRetry())
}

func TestNotifyingPersister(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	p := NewNotifyingPersister(store, pub)
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	rec := content.Record{BusinessName: "Harbor Bakery", Styles: content.DefaultStyles()}
	require.NoError(t, p.Save(context.Background(), "sub-1", rec))
	require.Contains(t, store.saved, "sub-1")
	require.Len(t, pub.events, 1)
	assert.Equal(t, "sub-1", pub.events[0].SubmissionID)
	assert.Equal(t, 2024, pub.events[0].SavedAt.Year())

	// the event owns its style map
	pub.events[0].Styles.Sections[content.KindHero] = "3"
	assert.Equal(t, "1", rec.Styles.Sections[content.KindHero])
}

func TestNotifyingPersister_PublishFailureDoesNotFailSave(t *testing.T) {
	store := &fakeStore{}
	p := NewNotifyingPersister(store, &recordingPublisher{err: errors.New("down")})
	require.NoError(t, p.Save(context.Background(), "sub-1", content.Record{}))
	assert.Contains(t, store.saved, "sub-1")
}

func TestNotifyingPersister_SaveFailureSkipsPublish(t *testing.T) {
	pub := &recordingPublisher{}
	saveErr := ferrors.PersistenceError("disk full").Build()
	p := NewNotifyingPersister(&fakeStore{err: saveErr}, pub)
	err := p.Save(context.Background(), "sub-1", content.Record{})
	require.ErrorIs(t, err, saveErr)
	assert.Empty(t, pub.events)

	err = NewNotifyingPersister(nil, nil).Save(context.Background(), "sub-1", content.Record{})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}
