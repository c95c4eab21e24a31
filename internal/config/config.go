// Package config loads sitebuilder.yaml: server, storage, submission
// database, preview, resolver retry, events and monitoring settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Version is the configuration format this build reads.
const Version = "1.0"

// DefaultPath is where commands look for a configuration file.
const DefaultPath = "sitebuilder.yaml"

// Config is the complete configuration.
type Config struct {
	Version     string            `yaml:"version"`
	Site        SiteConfig        `yaml:"site"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Submissions SubmissionsConfig `yaml:"submissions"`
	Preview     PreviewConfig     `yaml:"preview"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Events      EventsConfig      `yaml:"events"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
}

// SiteConfig locates the profile being edited and the rendered output.
type SiteConfig struct {
	Profile string `yaml:"profile"` // YAML, JSON or Markdown profile
	Base    string `yaml:"base"`    // Base HTML document; empty uses the built-in one
	Output  string `yaml:"output"`  // Rendered document path
}

// ServerConfig is the editor HTTP server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	PublicURL       string `yaml:"public_url"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StorageConfig is the object storage service.
type StorageConfig struct {
	Dir            string   `yaml:"dir"`
	RefScheme      string   `yaml:"ref_scheme"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	AllowedTypes   []string `yaml:"allowed_types"`
	TokenTTL       string   `yaml:"token_ttl"`
	// RemoteURL points at another sitebuilder's storage service instead of
	// the local directory.
	RemoteURL string `yaml:"remote_url,omitempty"`
}

// SubmissionsConfig is the submission database.
type SubmissionsConfig struct {
	Database string `yaml:"database"`
	// ID is the submission the editor opens.
	ID string `yaml:"id"`
}

// PreviewConfig tunes preview sync.
type PreviewConfig struct {
	Debounce  string `yaml:"debounce"`
	Heartbeat string `yaml:"heartbeat"`
}

// ResolverConfig controls asset resolution.
type ResolverConfig struct {
	Concurrency int `yaml:"concurrency"`
	// RetryInterval re-resolves pending references; "0" disables it.
	RetryInterval string `yaml:"retry_interval"`
}

// EventsConfig is the optional NATS notification of saved submissions.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// MonitoringConfig covers metrics, health and logging.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration.
type MonitoringMetrics struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
}

// MetricsEnabled reports whether /metrics is served. It defaults to on.
func (m MonitoringMetrics) MetricsEnabled() bool { return m.Enabled == nil || *m.Enabled }

// MonitoringHealth represents health check configuration.
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, normalizes, defaults and validates a configuration
// file. .env and .env.local in the working directory are loaded first so
// ${VAR} references can use them.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: %v\n", err)
	}

	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse builds a Config from YAML. Environment references are expanded
// before decoding.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").Build()
	}
	if v := strings.TrimSpace(cfg.Version); v != "" && v != Version {
		return nil, ferrors.ConfigError("unsupported configuration version").
			WithContext("version", v).
			WithContext("expected", Version).
			Build()
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = finish(cfg)
	return cfg
}

func finish(cfg *Config) error {
	res := NormalizeConfig(cfg)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}
	ApplyDefaults(cfg)
	return Validate(cfg)
}

// Init writes an example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConflictError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	cfg := Default()
	cfg.Events.NATSURL = "${NATS_URL}"
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// duration parses a validated duration field; "" and "0" are zero.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(strings.TrimSpace(s))
	return d
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(s.WriteTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(s.ShutdownTimeout) }

// TokenTTLDuration returns the parsed upload token lifetime.
func (s StorageConfig) TokenTTLDuration() time.Duration { return duration(s.TokenTTL) }

func (p PreviewConfig) DebounceDuration() time.Duration  { return duration(p.Debounce) }
func (p PreviewConfig) HeartbeatDuration() time.Duration { return duration(p.Heartbeat) }

// RetryIntervalDuration returns the parsed retry interval, zero when disabled.
func (r ResolverConfig) RetryIntervalDuration() time.Duration { return duration(r.RetryInterval) }
