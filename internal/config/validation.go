package config

import (
	"net/url"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

type durationField struct {
	name  string
	value string
}

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	for _, d := range []durationField{
		{"server.read_timeout", cfg.Server.ReadTimeout},
		{"server.write_timeout", cfg.Server.WriteTimeout},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout},
		{"storage.token_ttl", cfg.Storage.TokenTTL},
		{"preview.debounce", cfg.Preview.Debounce},
		{"preview.heartbeat", cfg.Preview.Heartbeat},
		{"resolver.retry_interval", cfg.Resolver.RetryInterval},
	} {
		if err := validateDuration(d); err != nil {
			return err
		}
	}
	if cfg.Storage.TokenTTLDuration() <= 0 {
		return invalid("storage.token_ttl", cfg.Storage.TokenTTL, "must be positive")
	}
	if cfg.Preview.HeartbeatDuration() <= 0 {
		return invalid("preview.heartbeat", cfg.Preview.Heartbeat, "must be positive")
	}
	if err := validateURL("server.public_url", cfg.Server.PublicURL, "http", "https"); err != nil {
		return err
	}
	if cfg.Storage.RemoteURL != "" {
		if err := validateURL("storage.remote_url", cfg.Storage.RemoteURL, "http", "https"); err != nil {
			return err
		}
	}
	if strings.ContainsAny(cfg.Storage.RefScheme, " :/") {
		return invalid("storage.ref_scheme", cfg.Storage.RefScheme, "must be a bare scheme name")
	}
	for _, t := range cfg.Storage.AllowedTypes {
		if !strings.HasPrefix(t, "image/") {
			return invalid("storage.allowed_types", t, "only image types can be uploaded")
		}
	}
	if cfg.Events.Enabled {
		if err := validateURL("events.nats_url", cfg.Events.NATSURL, "nats", "tls", "ws", "wss"); err != nil {
			return err
		}
	}
	for name, p := range map[string]string{
		"monitoring.metrics.path": cfg.Monitoring.Metrics.Path,
		"monitoring.health.path":  cfg.Monitoring.Health.Path,
	} {
		if !strings.HasPrefix(p, "/") {
			return invalid(name, p, "must start with /")
		}
	}
	return nil
}

// Limits returns the upload limits the storage section describes.
func (s StorageConfig) Limits() storage.Limits {
	return storage.Limits{MaxBytes: s.MaxUploadBytes, AllowedTypes: s.AllowedTypes}
}

func validateDuration(d durationField) error {
	v := strings.TrimSpace(d.value)
	if v == "" || v == "0" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return invalid(d.name, d.value, "not a duration")
	}
	if parsed < 0 {
		return invalid(d.name, d.value, "must not be negative")
	}
	return nil
}

func validateURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return invalid(name, raw, "not an absolute URL")
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return invalid(name, raw, "unsupported scheme "+u.Scheme)
}

func invalid(field, value, reason string) error {
	return ferrors.ConfigError("invalid configuration value").
		WithContext("field", field).
		WithContext("value", value).
		WithContext("reason", reason).
		Build()
}
