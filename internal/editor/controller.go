// Package editor holds the draft content record behind the site editor. It
// tracks clean/dirty state, applies field updates, coordinates image uploads
// with the storage collaborator and saves through the persistence
// collaborator.
package editor

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// State is the draft's relation to the last loaded or saved record.
type State int

const (
	StateClean State = iota
	StateDirty
)

func (s State) String() string {
	if s == StateDirty {
		return "dirty"
	}
	return "clean"
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Storage is the asset storage collaborator.
type Storage interface {
	RequestUploadTarget(ctx context.Context) (string, error)
	Transfer(ctx context.Context, target string, f storage.File) (string, error)
}

// Persister is the record persistence collaborator.
type Persister interface {
	Save(ctx context.Context, id string, rec content.Record) error
}

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	ID       string         `json:"id"`
	Record   content.Record `json:"record"`
	Photos   []string       `json:"photos"`
	State    State          `json:"state"`
	Revision uint64         `json:"revision"`
}

// ChangeFunc observes every state change.
type ChangeFunc func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithStorage sets the storage collaborator used by Upload.
func WithStorage(s Storage) Option {
	return func(c *Controller) { c.storage = s }
}

// WithRefScheme sets the scheme of references produced by uploads.
func WithRefScheme(scheme string) Option {
	return func(c *Controller) { c.scheme = scheme }
}

// WithUploadLimits sets the size and type limits checked before an upload.
func WithUploadLimits(l storage.Limits) Option {
	return func(c *Controller) { c.limits = l }
}

// WithPersister sets the persistence collaborator used by Save.
func WithPersister(p Persister) Option {
	return func(c *Controller) { c.persister = p }
}

// WithResolver sets the resolver used by Resolve.
func WithResolver(r *assets.Resolver) Option {
	return func(c *Controller) { c.resolver = r }
}

// WithValidateOptions sets the options used when validating before save.
func WithValidateOptions(o content.ValidateOptions) Option {
	return func(c *Controller) { c.validate = o }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Controller) { c.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the draft record. All methods are safe for concurrent use;
// network calls run without holding the lock and their results are applied
// last-write-wins.
type Controller struct {
	storage   Storage
	scheme    string
	limits    storage.Limits
	persister Persister
	resolver  *assets.Resolver
	validate  content.ValidateOptions
	recorder  metrics.Recorder
	logger    *slog.Logger

	mu        sync.Mutex
	id        string
	loaded    content.Record
	draft     content.Record
	photos    []string
	state     State
	revision  uint64
	uploading map[content.ImageField]bool
	hooks     []ChangeFunc
}

// New returns a Controller holding an empty, defaulted record.
func New(opts ...Option) *Controller {
	c := &Controller{
		scheme:    content.DefaultRefScheme,
		limits:    storage.DefaultLimits(),
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		uploading: make(map[content.ImageField]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	content.EnsureDefaults(&c.draft)
	c.loaded = c.draft.Clone()
	return c
}

// OnChange registers fn to run after every state change, outside the lock,
// in registration order.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Load replaces the draft with sub. Missing structural content is back-filled;
// when that changes anything the draft starts dirty so the defaults get saved.
func (c *Controller) Load(sub content.Submission) {
	rec := sub.Record.Clone()
	filled := content.EnsureDefaults(&rec)

	c.mu.Lock()
	c.id = sub.ID
	c.loaded = rec.Clone()
	c.draft = rec
	c.photos = slices.Clone(sub.Photos)
	c.state = StateClean
	if filled {
		c.state = StateDirty
	}
	c.revision++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("Loaded submission",
		logfields.SubmissionID(sub.ID),
		slog.Bool("defaults_added", filled))
	c.notify(snap)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset discards the draft and restores the last loaded or saved record.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.draft = c.loaded.Clone()
	c.state = StateClean
	c.revision++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Save validates the draft and persists it. A clean draft is validated but
// not persisted again. On any failure the draft and its state are left
// untouched.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	id := c.id
	draft := c.draft.Clone()
	rev := c.revision
	state := c.state
	c.mu.Unlock()

	if err := content.ValidateWith(draft, c.validate); err != nil {
		c.recorder.IncSave(metrics.SaveInvalid)
		return err
	}
	if state == StateClean {
		c.recorder.IncSave(metrics.SaveUnchanged)
		return nil
	}
	if c.persister == nil {
		c.recorder.IncSave(metrics.SaveFailed)
		return ferrors.InternalError("no persistence collaborator configured").Build()
	}
	if err := c.persister.Save(ctx, id, draft); err != nil {
		c.recorder.IncSave(metrics.SaveFailed)
		c.logger.WarnContext(ctx, "Save failed", logfields.SubmissionID(id), logfields.Error(err))
		if ferrors.IsClassified(err) {
			return err
		}
		return ferrors.WrapError(err, ferrors.CategoryPersistence, "save failed").
			WithContext("submission_id", id).
			UserAction().
			Build()
	}

	c.mu.Lock()
	c.loaded = draft
	// edits made while saving keep the draft dirty
	if c.revision == rev {
		c.state = StateClean
	}
	c.revision++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.recorder.IncSave(metrics.SaveSuccess)
	c.logger.InfoContext(ctx, "Saved submission", logfields.SubmissionID(id))
	c.notify(snap)
	return nil
}

// Resolve resolves every opaque image reference of the current draft for
// display. Failures leave the affected slots pending.
func (c *Controller) Resolve(ctx context.Context) (assets.Resolved, error) {
	snap := c.Snapshot()
	if c.resolver == nil {
		return assets.Resolved{
			Record:  snap.Record,
			Photos:  snap.Photos,
			Pending: assets.Pending(snap.Record, snap.Photos),
		}, nil
	}
	return c.resolver.ResolveRecord(ctx, snap.Record, snap.Photos)
}

// mutate applies fn to the draft under the lock. A nil error marks the draft
// dirty and notifies observers.
func (c *Controller) mutate(fn func(r *content.Record) error) error {
	c.mu.Lock()
	if err := fn(&c.draft); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = StateDirty
	c.revision++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       c.id,
		Record:   c.draft.Clone(),
		Photos:   slices.Clone(c.photos),
		State:    c.state,
		Revision: c.revision,
	}
}

func (c *Controller) notify(snap Snapshot) {
	c.mu.Lock()
	hooks := slices.Clone(c.hooks)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(snap)
	}
}
