// Package assets resolves opaque image references to displayable URLs.
package assets

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Resolution maps one storage id to a fetchable URL.
type Resolution struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Lookup resolves storage ids in one call. Results may be partial and in any
// order; ids missing from the result stay pending.
type Lookup interface {
	ResolveMany(ctx context.Context, ids []string) ([]Resolution, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, ids []string) ([]Resolution, error)

// ResolveMany calls f.
func (f LookupFunc) ResolveMany(ctx context.Context, ids []string) ([]Resolution, error) {
	return f(ctx, ids)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(res *Resolver) { res.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) { res.logger = l }
}

// WithScheme sets the reference scheme the lookup answers for. References in
// other schemes are never sent to it and stay pending.
func WithScheme(scheme string) Option {
	return func(res *Resolver) {
		if scheme != "" {
			res.scheme = strings.ToLower(scheme)
		}
	}
}

// WithConcurrency bounds concurrent lookup batches.
func WithConcurrency(n int) Option {
	return func(res *Resolver) { res.concurrency = n }
}

// Resolver batches lookups per array and remembers resolved URLs.
type Resolver struct {
	lookup      Lookup
	scheme      string
	recorder    metrics.Recorder
	logger      *slog.Logger
	concurrency int

	mu sync.RWMutex
	// keyed by full reference, scheme included
	cache map[string]string
}

// NewResolver returns a Resolver backed by lookup.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:      lookup,
		scheme:      content.DefaultRefScheme,
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		concurrency: 4,
		cache:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps refs to displayable values with at most one lookup call.
// Fetchable URLs pass through; opaque refs become their URL, or stay as
// they are when unresolved so callers can render them pending and retry.
// Positions are recovered by id, never by response order.
func (r *Resolver) Resolve(ctx context.Context, refs []string) ([]string, error) {
	if refs == nil {
		return nil, nil
	}
	out := make([]string, len(refs))
	copy(out, refs)

	// id -> positions in refs
	positions := make(map[string][]int)
	var ids []string
	for i, ref := range refs {
		parsed, ok := content.ParseRef(ref)
		if !ok || parsed.Fetchable || parsed.Scheme != r.scheme {
			continue
		}
		if url, hit := r.cached(content.FormatRef(parsed.Scheme, parsed.ID)); hit {
			out[i] = url
			continue
		}
		if _, seen := positions[parsed.ID]; !seen {
			ids = append(ids, parsed.ID)
		}
		positions[parsed.ID] = append(positions[parsed.ID], i)
	}
	if len(ids) == 0 || r.lookup == nil {
		return out, nil
	}

	start := time.Now()
	results, err := r.lookup.ResolveMany(ctx, ids)
	r.recorder.ObserveResolveBatch(len(ids), time.Since(start), err == nil)
	if err != nil {
		for range ids {
			r.recorder.IncResolveResult(metrics.ResultFailed)
		}
		return out, ferrors.WrapError(err, ferrors.CategoryStorage, "asset lookup failed").
			WithContext("count", len(ids)).
			Retryable().
			Build()
	}

	resolved := make(map[string]string, len(results))
	for _, res := range results {
		if _, wanted := positions[res.ID]; wanted && content.IsFetchable(res.URL) {
			resolved[res.ID] = res.URL
		}
	}
	r.remember(resolved)
	for _, id := range ids {
		url, ok := resolved[id]
		if !ok {
			r.recorder.IncResolveResult(metrics.ResultPending)
			continue
		}
		r.recorder.IncResolveResult(metrics.ResultResolved)
		for _, i := range positions[id] {
			out[i] = url
		}
	}
	return out, nil
}

// Resolved is a record and photo pool with every resolvable reference
// replaced by its URL.
type Resolved struct {
	Record content.Record
	Photos []string
	// Pending counts references still unresolved.
	Pending int
}

// ResolveRecord resolves every image field of rec and the photo pool. Each
// distinct array is one lookup batch; batches run concurrently. Failed
// batches leave their references in place and are reported in the joined
// error, which never prevents the result from being used.
func (r *Resolver) ResolveRecord(ctx context.Context, rec content.Record, photos []string) (Resolved, error) {
	out := Resolved{Record: rec.Clone(), Photos: append([]string(nil), photos...)}
	if photos == nil {
		out.Photos = nil
	}

	type target struct {
		refs  []string
		apply []func([]string)
	}
	batches := map[string]*target{}
	var order []string
	add := func(refs []string, apply func([]string)) {
		if !hasOpaque(refs) {
			return
		}
		key := strings.Join(refs, "\x00")
		b, ok := batches[key]
		if !ok {
			b = &target{refs: refs}
			batches[key] = b
			order = append(order, key)
		}
		b.apply = append(b.apply, apply)
	}

	for _, f := range out.Record.ImageFields() {
		field := f
		add(out.Record.Images(field), func(v []string) { out.Record.SetImages(field, v) })
	}
	add(out.Photos, func(v []string) { out.Photos = v })

	results := make([][]string, len(order))
	errs := make([]error, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, key := range order {
		refs := batches[key].refs
		g.Go(func() error {
			results[i], errs[i] = r.Resolve(gctx, refs)
			return nil
		})
	}
	_ = g.Wait()

	for i, key := range order {
		for _, apply := range batches[key].apply {
			apply(append([]string(nil), results[i]...))
		}
	}
	out.Pending = Pending(out.Record, out.Photos)

	err := errors.Join(errs...)
	if err != nil {
		r.logger.Warn("Asset resolution incomplete", logfields.Count(out.Pending), logfields.Error(err))
	}
	return out, err
}

// Pending counts opaque references in rec and photos.
func Pending(rec content.Record, photos []string) int {
	n := countOpaque(photos)
	for _, f := range rec.ImageFields() {
		n += countOpaque(rec.Images(f))
	}
	return n
}

// Forget drops cached URLs, forcing the next resolution to look them up.
func (r *Resolver) Forget() {
	r.mu.Lock()
	r.cache = make(map[string]string)
	r.mu.Unlock()
}

func (r *Resolver) cached(ref string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	url, ok := r.cache[ref]
	return url, ok
}

func (r *Resolver) remember(resolved map[string]string) {
	if len(resolved) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, url := range resolved {
		r.cache[content.FormatRef(r.scheme, id)] = url
	}
}

func hasOpaque(refs []string) bool {
	return countOpaque(refs) > 0
}

func countOpaque(refs []string) int {
	n := 0
	for _, ref := range refs {
		if content.IsOpaque(ref) {
			n++
		}
	}
	return n
}
