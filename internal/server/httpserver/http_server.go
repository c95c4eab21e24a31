// Package httpserver wires the editor API, the preview and the storage
// surface into one HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/server/handlers"
	smw "git.home.luguber.info/inful/sitebuilder/internal/server/middleware"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Runtime is the editing session the server exposes.
type Runtime interface {
	handlers.Status
	Hub() *preview.Hub
	Surface() *preview.Surface
	Highlighter() *preview.Highlighter
}

// Options carries the optional collaborators of a Server.
type Options struct {
	// Storage serves /storage in-process. Nil when a remote storage service
	// is configured.
	Storage *storage.Service
	// Submissions backs /api/submissions. Nil leaves the routes unmounted.
	Submissions handlers.SubmissionLister
	// Registry is served on the metrics path when metrics are enabled.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server is the sitebuilder HTTP server.
type Server struct {
	cfg     *config.Config
	runtime Runtime
	opts    Options
	logger  *slog.Logger
	router  chi.Router

	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
}

// New builds the router. Nothing listens until Start.
func New(cfg *config.Config, runtime Runtime, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{cfg: cfg, runtime: runtime, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	adapter := ferrors.NewHTTPErrorAdapter(s.logger)

	editorHandlers := handlers.NewEditorHandlers(s.runtime, s.cfg.Storage.MaxUploadBytes, s.logger)
	previewHandlers := handlers.NewPreviewHandlers(s.runtime.Surface(), s.runtime.Highlighter(), s.logger)
	monitoringHandlers := handlers.NewMonitoringHandlers(s.runtime, s.logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(smw.Chain(s.logger, adapter))

	r.Route("/api", func(r chi.Router) {
		r.Route("/record", editorHandlers.Routes)
		r.Post("/focus", previewHandlers.HandleFocus)
		r.Delete("/focus", previewHandlers.HandleBlur)
		r.Get("/styles", previewHandlers.HandleStyles)
		if s.opts.Submissions != nil {
			sh := handlers.NewSubmissionHandlers(s.opts.Submissions, s.logger)
			r.Get("/submissions", sh.HandleList)
			r.Get("/submissions/{id}/revisions", sh.HandleRevisions)
		}
	})

	r.Get("/preview", previewHandlers.HandlePreview)
	r.Method(http.MethodGet, preview.EventsPath, s.runtime.Hub())
	r.Get(s.cfg.Monitoring.Health.Path, monitoringHandlers.HandleHealthCheck)
	if s.cfg.Monitoring.Metrics.MetricsEnabled() {
		r.Method(http.MethodGet, s.cfg.Monitoring.Metrics.Path, metrics.HTTPHandler(s.opts.Registry))
	}
	if s.opts.Storage != nil {
		r.Mount("/storage", storage.NewHandler(s.opts.Storage, s.logger))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		adapter.WriteErrorResponse(w, r, ferrors.NotFoundError("no such route").
			WithContext("path", r.URL.Path).
			Build())
	})
	return r
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler { return s.router }

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("http server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return ferrors.NetworkError("failed to bind http address").
			WithCause(err).
			WithContext("addr", s.cfg.Server.Addr).
			Fatal().
			Build()
	}

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeoutDuration(),
		ReadTimeout:       s.cfg.Server.ReadTimeoutDuration(),
		// zero keeps preview event streams open
		WriteTimeout: s.cfg.Server.WriteTimeoutDuration(),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.addr = ln.Addr()

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", s.addr.String()))
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop closes preview streams and shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.runtime.Hub().Shutdown()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
