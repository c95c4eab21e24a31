package config

import (
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Default values.
const (
	DefaultDataDir         = "./data"
	DefaultProfile         = "site.yaml"
	DefaultOutput          = "./public/index.html"
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = "15s"
	DefaultWriteTimeout    = "0s" // SSE streams stay open
	DefaultShutdownTimeout = "10s"
	DefaultTokenTTL        = "15m"
	DefaultSubmissionID    = "default"
	DefaultDebounce        = "300ms"
	DefaultHeartbeat       = "30s"
	DefaultConcurrency     = 4
	DefaultRetryInterval   = "30s"
	DefaultNATSURL         = "nats://localhost:4222"
	DefaultMetricsPath     = "/metrics"
	DefaultHealthPath      = "/health"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Site.Profile, DefaultProfile)
	setIfEmpty(&cfg.Site.Output, DefaultOutput)
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Server.Addr, DefaultAddr)
	setIfEmpty(&cfg.Server.PublicURL, storage.DefaultPublicURL)
	setIfEmpty(&cfg.Server.ReadTimeout, DefaultReadTimeout)
	setIfEmpty(&cfg.Server.WriteTimeout, DefaultWriteTimeout)
	setIfEmpty(&cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

type storageDefaults struct{}

func (storageDefaults) Domain() string { return "storage" }

func (storageDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Storage.Dir, filepath.Join(DefaultDataDir, "objects"))
	setIfEmpty(&cfg.Storage.RefScheme, content.DefaultRefScheme)
	setIfEmpty(&cfg.Storage.TokenTTL, DefaultTokenTTL)
	if cfg.Storage.MaxUploadBytes <= 0 {
		cfg.Storage.MaxUploadBytes = storage.DefaultMaxBytes
	}
	if len(cfg.Storage.AllowedTypes) == 0 {
		cfg.Storage.AllowedTypes = slices.Clone(storage.DefaultAllowedTypes)
	}
}

type submissionsDefaults struct{}

func (submissionsDefaults) Domain() string { return "submissions" }

func (submissionsDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Submissions.Database, filepath.Join(DefaultDataDir, "sitebuilder.db"))
	setIfEmpty(&cfg.Submissions.ID, DefaultSubmissionID)
}

type previewDefaults struct{}

func (previewDefaults) Domain() string { return "preview" }

func (previewDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Preview.Debounce, DefaultDebounce)
	setIfEmpty(&cfg.Preview.Heartbeat, DefaultHeartbeat)
}

type resolverDefaults struct{}

func (resolverDefaults) Domain() string { return "resolver" }

func (resolverDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Resolver.Concurrency == 0 {
		cfg.Resolver.Concurrency = DefaultConcurrency
	}
	setIfEmpty(&cfg.Resolver.RetryInterval, DefaultRetryInterval)
}

type eventsDefaults struct{}

func (eventsDefaults) Domain() string { return "events" }

func (eventsDefaults) ApplyDefaults(cfg *Config) {
	setIfEmpty(&cfg.Events.NATSURL, DefaultNATSURL)
	setIfEmpty(&cfg.Events.Subject, events.DefaultSubject)
}

type monitoringDefaults struct{}

func (monitoringDefaults) Domain() string { return "monitoring" }

func (monitoringDefaults) ApplyDefaults(cfg *Config) {
	m := &cfg.Monitoring
	setIfEmpty(&m.Metrics.Path, DefaultMetricsPath)
	setIfEmpty(&m.Health.Path, DefaultHealthPath)
	if m.Logging.Level == "" {
		m.Logging.Level = LogLevelInfo
	}
	if m.Logging.Format == "" {
		m.Logging.Format = LogFormatText
	}
}

// appliers run in order.
var appliers = []DefaultApplier{
	siteDefaults{},
	serverDefaults{},
	storageDefaults{},
	submissionsDefaults{},
	previewDefaults{},
	resolverDefaults{},
	eventsDefaults{},
	monitoringDefaults{},
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = Version
	}
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
