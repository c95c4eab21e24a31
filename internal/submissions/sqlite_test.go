package submissions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewSQLiteStore(":memory:", WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord() content.Record {
	rec := content.Record{
		BusinessName: "Harbor Bakery",
		Tagline:      "Fresh bread daily",
		About:        "We bake.",
		Logo:         "storage:abc",
		HeroImages:   []string{},
		Contact:      &content.Contact{Email: "hi@harbor.example"},
		Visibility:   content.Visibility{content.FlagHeroBadge: false},
	}
	content.EnsureDefaults(&rec)
	rec.Styles.Sections[content.KindHero] = "3"
	return rec
}

func TestSQLiteStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	rec := sampleRecord()

	require.NoError(t, store.Save(ctx, "sub-1", rec))

	sub, err := store.Load(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, rec, sub.Record)
	assert.NotNil(t, sub.Record.HeroImages, "an empty gallery stays empty, not unset")
	assert.Nil(t, sub.Record.AboutImages)
	assert.Empty(t, sub.Photos)
	assert.False(t, sub.UpdatedAt.IsZero())
}

func TestSQLiteStore_SaveAppendsRevisions(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	rec := sampleRecord()

	require.NoError(t, store.Save(ctx, "sub-1", rec))
	rec.Tagline = "Now with pastries"
	require.NoError(t, store.Save(ctx, "sub-1", rec))

	revs, err := store.Revisions(ctx, "sub-1")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, 1, revs[0].Number)
	assert.Equal(t, "Fresh bread daily", revs[0].Record.Tagline)
	assert.Equal(t, 2, revs[1].Number)
	assert.Equal(t, "Now with pastries", revs[1].Record.Tagline)
	assert.True(t, revs[1].SavedAt.After(revs[0].SavedAt))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Revision)
}

func TestSQLiteStore_ImportKeepsPhotosAcrossSaves(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	id, err := store.Import(ctx, content.Submission{Record: sampleRecord(), Photos: []string{"storage:p1", "https://x/p2.jpg"}})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec := sampleRecord()
	rec.About = "Edited"
	require.NoError(t, store.Save(ctx, id, rec))

	sub, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Edited", sub.Record.About)
	assert.Equal(t, []string{"storage:p1", "https://x/p2.jpg"}, sub.Photos)

	_, err = store.Import(ctx, content.Submission{ID: id})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConflict))
}

func TestSQLiteStore_ListOrdersByUpdate(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	a := sampleRecord()
	a.BusinessName = "Alpha"
	b := sampleRecord()
	b.BusinessName = "Beta"
	require.NoError(t, store.Save(ctx, "a", a))
	require.NoError(t, store.Save(ctx, "b", b))
	require.NoError(t, store.Save(ctx, "a", a))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "Alpha", list[0].BusinessName)
	assert.Equal(t, "b", list[1].ID)
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := newStore(t)
	_, err := store.Load(t.Context(), "nope")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestSQLiteStore_SaveRequiresID(t *testing.T) {
	store := newStore(t)
	err := store.Save(t.Context(), "", sampleRecord())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestSQLiteStore_ClosedStoreFailsAsPersistence(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Save(context.Background(), "x", sampleRecord())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSaveFailed))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPersistence))
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(t.Context(), "sub-1", sampleRecord()))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	sub, err := reopened.Load(t.Context(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Bakery", sub.Record.BusinessName)
}
