package assets

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// fakeLookup answers in reverse request order to prove positions are
// recovered by id.
type fakeLookup struct {
	mu    sync.Mutex
	urls  map[string]string
	calls [][]string
	err   error
}

func (f *fakeLookup) ResolveMany(_ context.Context, ids []string) ([]Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []Resolution
	for i := len(ids) - 1; i >= 0; i-- {
		if url, ok := f.urls[ids[i]]; ok {
			out = append(out, Resolution{ID: ids[i], URL: url})
		}
	}
	return out, nil
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestResolve_PreservesPositionsRegardlessOfResponseOrder(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{
		"a": "https://cdn.example.com/a.jpg",
		"c": "https://cdn.example.com/c.jpg",
	}}
	r := NewResolver(lookup)

	out, err := r.Resolve(context.Background(), []string{"storage:a", "https://cdn.example.com/b.jpg", "storage:c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.jpg"}, out)
	require.Len(t, lookup.calls, 1)
	assert.Equal(t, []string{"a", "c"}, lookup.calls[0])
}

func TestResolve_PartialResultsStayPending(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{"a": "https://cdn.example.com/a.jpg", "b": "not-a-url"}}
	out, err := NewResolver(lookup).Resolve(context.Background(), []string{"storage:a", "storage:b", "storage:missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "storage:b", "storage:missing"}, out)
}

func TestResolve_DuplicateIDsRequestedOnce(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{"a": "https://cdn.example.com/a.jpg"}}
	out, err := NewResolver(lookup).Resolve(context.Background(), []string{"storage:a", "storage:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"}, out)
	assert.Equal(t, [][]string{{"a"}}, lookup.calls)
}

func TestResolve_LookupFailureLeavesReferences(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}
	refs := []string{"storage:a", "https://cdn.example.com/b.jpg"}
	out, err := NewResolver(lookup).Resolve(context.Background(), refs)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryStorage))
	assert.Equal(t, refs, out)
}

func TestResolve_CachesResolvedIDs(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{"a": "https://cdn.example.com/a.jpg"}}
	r := NewResolver(lookup)
	ctx := context.Background()

	_, err := r.Resolve(ctx, []string{"storage:a", "storage:b"})
	require.NoError(t, err)
	out, err := r.Resolve(ctx, []string{"storage:a", "storage:b"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", out[0])
	assert.Equal(t, [][]string{{"a", "b"}, {"b"}}, lookup.calls)

	r.Forget()
	_, err = r.Resolve(ctx, []string{"storage:a"})
	require.NoError(t, err)
	assert.Equal(t, 3, lookup.callCount())
}

func TestResolve_NilAndFetchableOnly(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup)
	out, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = r.Resolve(context.Background(), []string{"https://x/1.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/1.jpg"}, out)
	assert.Zero(t, lookup.callCount())
}

func TestResolve_OtherSchemesStayPending(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{"abc": "https://cdn.example.com/abc.jpg"}}
	r := NewResolver(lookup)

	out, err := r.Resolve(context.Background(), []string{"storage:abc", "cdn:abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/abc.jpg", "cdn:abc"}, out)
	assert.Equal(t, [][]string{{"abc"}}, lookup.calls)

	// A cached storage:abc must not answer for cdn:abc.
	out, err = r.Resolve(context.Background(), []string{"cdn:abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cdn:abc"}, out)
	assert.Equal(t, 1, lookup.callCount())
}

func TestResolve_WithSchemeServesOnlyThatScheme(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{"abc": "https://cdn.example.com/abc.jpg"}}
	r := NewResolver(lookup, WithScheme("CDN"))

	out, err := r.Resolve(context.Background(), []string{"storage:abc", "cdn:abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"storage:abc", "https://cdn.example.com/abc.jpg"}, out)
	assert.Equal(t, [][]string{{"abc"}}, lookup.calls)
}

func TestResolveRecord_OneBatchPerDistinctArray(t *testing.T) {
	lookup := &fakeLookup{urls: map[string]string{
		"logo": "https://cdn.example.com/logo.png",
		"p1":   "https://cdn.example.com/p1.jpg",
		"p2":   "https://cdn.example.com/p2.jpg",
		"rye":  "https://cdn.example.com/rye.jpg",
	}}
	rec := content.Record{
		BusinessName: "Harbor",
		Logo:         "storage:logo",
		HeroImages:   []string{"storage:p1", "storage:p2"},
		Featured:     &content.Featured{Products: []content.Product{{Title: "Rye", Image: "storage:rye"}}},
	}
	photos := []string{"storage:p1", "storage:p2"}

	res, err := NewResolver(lookup).ResolveRecord(context.Background(), rec, photos)
	require.NoError(t, err)

	// logo, product image and one shared batch for the identical hero/pool arrays
	require.Equal(t, 3, lookup.callCount())
	var batches []string
	for _, c := range lookup.calls {
		batches = append(batches, c...)
	}
	sort.Strings(batches)
	assert.Equal(t, []string{"logo", "p1", "p2", "rye"}, batches)

	assert.Equal(t, "https://cdn.example.com/logo.png", res.Record.Logo)
	assert.Equal(t, content.Gallery{"https://cdn.example.com/p1.jpg", "https://cdn.example.com/p2.jpg"}, res.Record.HeroImages)
	assert.Equal(t, []string(res.Record.HeroImages), res.Photos)
	assert.Equal(t, "https://cdn.example.com/rye.jpg", res.Record.Featured.Products[0].Image)
	assert.Nil(t, res.Record.AboutImages, "unset galleries stay unset")
	assert.Zero(t, res.Pending)

	assert.Equal(t, "storage:logo", rec.Logo, "input record is untouched")
	assert.Equal(t, "storage:p1", rec.HeroImages[0])
}

func TestResolveRecord_FailuresAreReportedButNotFatal(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("storage offline")}
	rec := content.Record{AboutImages: []string{"storage:a", "https://cdn.example.com/b.jpg"}}

	res, err := NewResolver(lookup).ResolveRecord(context.Background(), rec, nil)
	require.Error(t, err)
	assert.Equal(t, content.Gallery{"storage:a", "https://cdn.example.com/b.jpg"}, res.Record.AboutImages)
	assert.Equal(t, 1, res.Pending)
}

func TestPending(t *testing.T) {
	rec := content.Record{Logo: "storage:x", FeaturedImages: []string{"storage:y", "https://x/z.jpg"}}
	assert.Equal(t, 3, Pending(rec, []string{"storage:q"}))
}
