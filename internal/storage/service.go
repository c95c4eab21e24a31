package storage

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

const (
	UploadsPath = "/storage/uploads/"
	ObjectsPath = "/storage/objects/"

	DefaultPublicURL = "http://localhost:8080"
	DefaultTokenTTL  = 15 * time.Minute
)

// Option configures a Service.
type Option func(*Service)

// WithLimits sets upload limits.
func WithLimits(l Limits) Option {
	return func(s *Service) { s.limits = l }
}

// WithPublicURL sets the origin used in upload targets and resolved URLs.
func WithPublicURL(u string) Option {
	return func(s *Service) { s.publicURL = strings.TrimRight(u, "/") }
}

// WithTokenTTL sets how long an upload target stays valid.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Service) { s.tokenTTL = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service hands out single-use upload targets, stores transferred images and
// resolves object ids to public URLs. It satisfies the editor's storage
// collaborator and assets.Lookup in-process.
type Service struct {
	store     ObjectStore
	limits    Limits
	publicURL string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewService returns a Service over store.
func NewService(store ObjectStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		limits:    DefaultLimits(),
		publicURL: DefaultPublicURL,
		tokenTTL:  DefaultTokenTTL,
		now:       time.Now,
		logger:    slog.Default(),
		tokens:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the upload limits in force.
func (s *Service) Limits() Limits { return s.limits }

// RequestUploadTarget issues a new single-use upload URL.
func (s *Service) RequestUploadTarget(_ context.Context) (string, error) {
	token := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	for t, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, t)
		}
	}
	s.tokens[token] = now.Add(s.tokenTTL)
	s.mu.Unlock()

	return s.publicURL + UploadsPath + token, nil
}

// Transfer uploads f to a target previously returned by RequestUploadTarget.
func (s *Service) Transfer(ctx context.Context, target string, f File) (string, error) {
	u, err := url.Parse(target)
	if err != nil || !strings.HasPrefix(u.Path, UploadsPath) {
		return "", ferrors.ValidationError("invalid upload target").
			WithContext("target", target).
			Build()
	}
	return s.Accept(ctx, path.Base(u.Path), f)
}

// Accept consumes token and stores f, returning the object id.
func (s *Service) Accept(ctx context.Context, token string, f File) (string, error) {
	if err := s.consume(token); err != nil {
		return "", err
	}
	ct, err := s.limits.Check(f)
	if err != nil {
		return "", err
	}

	id, err := s.store.Put(ctx, &Object{
		ContentType: ct,
		Data:        f.Data,
		Metadata:    Metadata{Filename: f.Name},
	})
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryStorage, "store upload").
			Retryable().
			Build()
	}
	s.logger.InfoContext(ctx, "Stored upload",
		logfields.StorageID(id),
		slog.String("content_type", ct),
		slog.Int("bytes", len(f.Data)))
	return id, nil
}

func (s *Service) consume(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if ok {
		delete(s.tokens, token)
	}
	if !ok || s.now().After(exp) {
		return ferrors.NotFoundError("upload target expired or unknown").
			WithContext("token", token).
			UserAction().
			Build()
	}
	return nil
}

// ResolveMany maps known ids to their public URLs. Unknown ids are omitted.
func (s *Service) ResolveMany(ctx context.Context, ids []string) ([]assets.Resolution, error) {
	out := make([]assets.Resolution, 0, len(ids))
	for _, id := range ids {
		ok, err := s.store.Exists(ctx, id)
		if err != nil {
			return out, ferrors.WrapError(err, ferrors.CategoryStorage, "resolve object").
				WithContext("id", id).
				Retryable().
				Build()
		}
		if ok {
			out = append(out, assets.Resolution{ID: id, URL: s.ObjectURL(id)})
		}
	}
	return out, nil
}

// ObjectURL returns the public URL of an object.
func (s *Service) ObjectURL(id string) string {
	return s.publicURL + ObjectsPath + id
}

// Open returns a stored object.
func (s *Service) Open(ctx context.Context, id string) (*Object, error) {
	obj, err := s.store.Get(ctx, id)
	if IsNotFound(err) {
		return nil, ferrors.NotFoundError("object not found").WithContext("id", id).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "read object").
			WithContext("id", id).
			Build()
	}
	return obj, nil
}
