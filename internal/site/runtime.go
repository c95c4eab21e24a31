// Package site ties the editor to preview sync: every draft change is
// resolved, composed and published to the preview surface.
package site

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/compose"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
)

// Runtime owns the editing session: controller, composer and preview.
type Runtime struct {
	controller  *editor.Controller
	composer    *compose.Composer
	base        string
	hub         *preview.Hub
	surface     *preview.Surface
	highlighter *preview.Highlighter
	logger      *slog.Logger

	kick    chan struct{}
	pending atomic.Int64

	// composeMu serialises Recompose so publishes follow draft order.
	composeMu sync.Mutex

	startOnce sync.Once
	done      chan struct{}
}

// Options configures a Runtime.
type Options struct {
	Controller *editor.Controller
	Composer   *compose.Composer
	Hub        *preview.Hub
	Recorder   metrics.Recorder
	Logger     *slog.Logger

	// Base is the document composed into; empty uses the built-in one.
	Base string
}

// New wires a runtime. Draft changes are recomposed once Start runs.
func New(opts Options) *Runtime {
	if opts.Controller == nil {
		opts.Controller = editor.New()
	}
	if opts.Composer == nil {
		opts.Composer = compose.New()
	}
	if opts.Hub == nil {
		opts.Hub = preview.NewHub(opts.Recorder)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	surface := preview.NewSurface(opts.Hub, opts.Recorder)
	rt := &Runtime{
		controller:  opts.Controller,
		composer:    opts.Composer,
		base:        opts.Base,
		hub:         opts.Hub,
		surface:     surface,
		highlighter: preview.NewHighlighter(surface, opts.Hub),
		logger:      opts.Logger,
		kick:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	rt.controller.OnChange(func(editor.Snapshot) { rt.Trigger() })
	return rt
}

// Controller returns the draft controller the runtime recomposes from.
func (rt *Runtime) Controller() *editor.Controller { return rt.controller }

// Hub returns the broadcast hub preview streams subscribe to.
func (rt *Runtime) Hub() *preview.Hub { return rt.hub }

// Surface returns the preview surface compositions are published to.
func (rt *Runtime) Surface() *preview.Surface { return rt.surface }

// Highlighter returns the element highlighter bound to the surface.
func (rt *Runtime) Highlighter() *preview.Highlighter { return rt.highlighter }

// Pending returns the unresolved reference count of the last composition.
func (rt *Runtime) Pending() int { return int(rt.pending.Load()) }

// PreviewClients returns the number of connected preview streams.
func (rt *Runtime) PreviewClients() int { return rt.hub.Clients() }

// Trigger asks the background loop to recompose. Bursts coalesce.
func (rt *Runtime) Trigger() {
	select {
	case rt.kick <- struct{}{}:
	default:
	}
}

// Start composes the current draft and then recomposes after every change
// until ctx is done.
func (rt *Runtime) Start(ctx context.Context) {
	rt.startOnce.Do(func() {
		if _, err := rt.Recompose(ctx); err != nil {
			rt.logger.Error("Initial composition failed", logfields.Error(err))
		}
		go rt.loop(ctx)
	})
}

// Done is closed when the background loop exits.
func (rt *Runtime) Done() <-chan struct{} { return rt.done }

func (rt *Runtime) loop(ctx context.Context) {
	defer close(rt.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.kick:
			if _, err := rt.Recompose(ctx); err != nil {
				rt.logger.Error("Recomposition failed", logfields.Error(err))
			}
		}
	}
}

// Recompose resolves the draft, composes it and publishes the result. It
// reports whether the preview changed. Resolution failures are logged and
// leave their slots pending; only composition errors are returned.
func (rt *Runtime) Recompose(ctx context.Context) (bool, error) {
	rt.composeMu.Lock()
	defer rt.composeMu.Unlock()

	start := time.Now()
	res, rerr := rt.controller.Resolve(ctx)
	if rerr != nil {
		rt.logger.WarnContext(ctx, "Preview composed with pending images", logfields.Count(res.Pending), logfields.Error(rerr))
	}
	doc, err := rt.Render(res)
	if err != nil {
		return false, err
	}
	rt.pending.Store(int64(res.Pending))
	changed := rt.surface.Publish(doc)
	rt.logger.DebugContext(ctx, "Recomposed preview",
		slog.Bool("changed", changed),
		logfields.Count(res.Pending),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return changed, nil
}

// Render composes a resolved record into the runtime's base document.
func (rt *Runtime) Render(res assets.Resolved) (string, error) {
	return rt.composer.Compose(rt.base, res.Record, res.Record.Styles, res.Photos)
}

// RetryPending recomposes when the last composition left references
// unresolved. It is the scheduled retry job.
func (rt *Runtime) RetryPending(ctx context.Context) {
	n := rt.Pending()
	if n == 0 {
		return
	}
	rt.logger.InfoContext(ctx, "Retrying pending asset resolution", logfields.Count(n))
	if _, err := rt.Recompose(ctx); err != nil {
		rt.logger.ErrorContext(ctx, "Retry composition failed", logfields.Error(err))
	}
}

// Shutdown disconnects preview clients.
func (rt *Runtime) Shutdown() {
	rt.hub.Shutdown()
}
