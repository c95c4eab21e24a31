package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/compose"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/server/httpserver"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
	"git.home.luguber.info/inful/sitebuilder/internal/submissions"
)

// storageClientTimeout bounds calls to a remote storage service.
const storageClientTimeout = 30 * time.Second

// app is the wired editing session behind preview and serve.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	registry  *prom.Registry
	recorder  metrics.Recorder
	objects   storage.ObjectStore
	storage   *storage.Service
	store     *submissions.SQLiteStore
	publisher events.Publisher
	runtime   *site.Runtime
	server    *httpserver.Server
	scheduler *site.Scheduler
	scheduled bool
}

// appOptions selects where saves go.
type appOptions struct {
	// Persister overrides the SQLite submission store.
	Persister editor.Persister
}

// newApp wires storage, persistence, the editor and the HTTP server from cfg.
func newApp(cfg *config.Config, logger *slog.Logger, opts appOptions) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger, registry: prom.NewRegistry(), publisher: events.Noop{}}
	defer func() {
		if err != nil {
			a.close()
		}
	}()
	a.recorder = metrics.NewPrometheusRecorder(a.registry)

	backend, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.objects, a.storage = backend.objects, backend.service

	persister := opts.Persister
	if persister == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.Submissions.Database), 0o750); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create database directory").
				WithContext("path", cfg.Submissions.Database).
				Build()
		}
		a.store, err = submissions.NewSQLiteStore(cfg.Submissions.Database)
		if err != nil {
			return nil, err
		}
		persister = a.store
	}
	if cfg.Events.Enabled {
		pub, err := events.DialNATS(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			// saves still work without notifications
			logger.Warn("Save notifications disabled", logfields.Error(err))
		} else {
			a.publisher = pub
		}
	}

	resolver := assets.NewResolver(backend.lookup,
		assets.WithScheme(cfg.Storage.RefScheme),
		assets.WithConcurrency(cfg.Resolver.Concurrency),
		assets.WithRecorder(a.recorder),
		assets.WithLogger(logger))
	ctrl := editor.New(
		editor.WithStorage(backend.editor),
		editor.WithRefScheme(cfg.Storage.RefScheme),
		editor.WithUploadLimits(cfg.Storage.Limits()),
		editor.WithPersister(events.NewNotifyingPersister(persister, a.publisher)),
		editor.WithResolver(resolver),
		editor.WithRecorder(a.recorder),
		editor.WithLogger(logger),
	)

	base, err := readBase(cfg.Site.Base)
	if err != nil {
		return nil, err
	}
	hub := preview.NewHub(a.recorder)
	hub.SetHeartbeat(cfg.Preview.HeartbeatDuration())
	a.runtime = site.New(site.Options{
		Controller: ctrl,
		Composer:   compose.New(compose.WithRecorder(a.recorder), compose.WithLogger(logger)),
		Base:       base,
		Hub:        hub,
		Recorder:   a.recorder,
		Logger:     logger,
	})

	serverOpts := httpserver.Options{Storage: a.storage, Registry: a.registry, Logger: logger}
	if a.store != nil {
		serverOpts.Submissions = a.store
	}
	a.server = httpserver.New(cfg, a.runtime, serverOpts)

	a.scheduler, err = site.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to create scheduler").Build()
	}
	return a, nil
}

// storageBackend is the storage collaborator chosen by configuration.
type storageBackend struct {
	editor  editor.Storage
	lookup  assets.Lookup
	service *storage.Service    // nil for remote storage
	objects storage.ObjectStore // nil for remote storage
}

// openStorage returns a client for storage.remote_url, or an in-process
// service over the object directory.
func openStorage(cfg *config.Config, logger *slog.Logger) (storageBackend, error) {
	if cfg.Storage.RemoteURL != "" {
		client := storage.NewClient(cfg.Storage.RemoteURL, &http.Client{Timeout: storageClientTimeout})
		logger.Info("Using remote storage", slog.String("url", cfg.Storage.RemoteURL))
		return storageBackend{editor: client, lookup: client}, nil
	}
	objects, err := storage.NewFSStore(cfg.Storage.Dir)
	if err != nil {
		return storageBackend{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to open object store").
			WithContext("dir", cfg.Storage.Dir).
			Build()
	}
	svc := storage.NewService(objects,
		storage.WithLimits(cfg.Storage.Limits()),
		storage.WithPublicURL(cfg.Server.PublicURL),
		storage.WithTokenTTL(cfg.Storage.TokenTTLDuration()),
		storage.WithLogger(logger))
	return storageBackend{editor: svc, lookup: svc, service: svc, objects: objects}, nil
}

// readBase returns the base document at path, or "" for the built-in one.
func readBase(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read base document").
			WithContext("path", path).
			Build()
	}
	return string(data), nil
}

// run serves until ctx is done, then shuts down within the configured timeout.
func (a *app) run(ctx context.Context) error {
	a.runtime.Start(ctx)
	if interval := a.cfg.Resolver.RetryIntervalDuration(); interval > 0 {
		if _, err := a.scheduler.SchedulePendingRetry(ctx, a.runtime, interval); err != nil {
			return err
		}
	}
	a.scheduler.Start()
	a.scheduled = true
	if err := a.server.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("Editor ready",
		slog.String("preview", a.cfg.Server.PublicURL+"/preview"),
		slog.String("api", a.cfg.Server.PublicURL+"/api/record"))

	<-ctx.Done()
	a.logger.Info("Shutdown signal received, stopping")

	stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	return a.server.Stop(stopCtx)
}

// close releases every resource newApp acquired.
func (a *app) close() {
	var errs []error
	if a.scheduled {
		errs = append(errs, a.scheduler.Stop())
	}
	if a.runtime != nil {
		a.runtime.Shutdown()
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.objects != nil {
		errs = append(errs, a.objects.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("Errors while closing", logfields.Error(err))
	}
}

// submissionOf turns a loaded profile into a submission.
func submissionOf(id string, p content.Profile) content.Submission {
	return content.Submission{ID: id, Record: p.Record, Photos: p.Photos}
}
