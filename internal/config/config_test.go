package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok, "expected classified error, got %v", err)
	f, _ := ce.Context().GetString("field")
	return f
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, storage.DefaultPublicURL, cfg.Server.PublicURL)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration())
	assert.Zero(t, cfg.Server.WriteTimeoutDuration())
	assert.Equal(t, "storage", cfg.Storage.RefScheme)
	assert.Equal(t, storage.DefaultMaxBytes, cfg.Storage.MaxUploadBytes)
	assert.Equal(t, storage.DefaultAllowedTypes, cfg.Storage.AllowedTypes)
	assert.Equal(t, 15*time.Minute, cfg.Storage.TokenTTLDuration())
	assert.Equal(t, DefaultSubmissionID, cfg.Submissions.ID)
	assert.Equal(t, 300*time.Millisecond, cfg.Preview.DebounceDuration())
	assert.Equal(t, 30*time.Second, cfg.Preview.HeartbeatDuration())
	assert.Equal(t, DefaultConcurrency, cfg.Resolver.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Resolver.RetryIntervalDuration())
	assert.False(t, cfg.Events.Enabled)
	assert.True(t, cfg.Monitoring.Metrics.MetricsEnabled())
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)

	// the defaults slice is not shared
	cfg.Storage.AllowedTypes[0] = "image/x-test"
	assert.Equal(t, "image/jpeg", storage.DefaultAllowedTypes[0])
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SB_ADDR", ":9090")
	t.Setenv("SB_NATS", "nats://broker:4222")
	cfg, err := Parse([]byte(`
version: "1.0"
server:
  addr: ${SB_ADDR}
  public_url: https://edit.example.com/
events:
  enabled: true
  nats_url: $SB_NATS
monitoring:
  metrics:
    enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://edit.example.com", cfg.Server.PublicURL)
	assert.Equal(t, "nats://broker:4222", cfg.Events.NATSURL)
	assert.False(t, cfg.Monitoring.Metrics.MetricsEnabled())
}

func TestParse_NormalizesEnumsAndLists(t *testing.T) {
	cfg, err := Parse([]byte(`
storage:
  ref_scheme: "media:"
  allowed_types: [" IMAGE/PNG", "image/png", "", "image/webp"]
resolver:
  concurrency: -3
monitoring:
  logging:
    level: WARNING
    format: yaml
`))
	require.NoError(t, err)
	assert.Equal(t, "media", cfg.Storage.RefScheme)
	assert.Equal(t, []string{"image/png", "image/webp"}, cfg.Storage.AllowedTypes)
	assert.Equal(t, DefaultConcurrency, cfg.Resolver.Concurrency)
	assert.Equal(t, LogLevelWarn, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)

	limits := cfg.Storage.Limits()
	assert.Equal(t, storage.DefaultMaxBytes, limits.MaxBytes)
	assert.Equal(t, []string{"image/png", "image/webp"}, limits.AllowedTypes)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]struct {
		yaml  string
		field string
	}{
		"bad duration":    {"storage:\n  token_ttl: soon\n", "storage.token_ttl"},
		"zero token ttl":  {"storage:\n  token_ttl: \"0\"\n", "storage.token_ttl"},
		"relative url":    {"server:\n  public_url: /edit\n", "server.public_url"},
		"ftp remote":      {"storage:\n  remote_url: ftp://files.example.com\n", "storage.remote_url"},
		"non-image type":  {"storage:\n  allowed_types: [application/pdf]\n", "storage.allowed_types"},
		"bad nats url":    {"events:\n  enabled: true\n  nats_url: http://broker\n", "events.nats_url"},
		"relative health": {"monitoring:\n  health:\n    path: health\n", "monitoring.health.path"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
			assert.Equal(t, tc.field, fieldOf(t, err))
		})
	}

	_, err := Parse([]byte("version: \"2.0\"\n"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = Parse([]byte("server: [unclosed"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParse_DisabledNATSIsNotValidated(t *testing.T) {
	_, err := Parse([]byte("events:\n  nats_url: not a url\n"))
	assert.NoError(t, err)
}

func TestLoad_ReadsEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("SB_TEST_PROFILE=from-env.yaml\nSB_TEST_OUTPUT=env.html\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.local", []byte("SB_TEST_OUTPUT=local.html\n"), 0o600))
	require.NoError(t, os.WriteFile("sitebuilder.yaml", []byte("site:\n  profile: ${SB_TEST_PROFILE}\n  output: ${SB_TEST_OUTPUT}\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("SB_TEST_PROFILE")
		_ = os.Unsetenv("SB_TEST_OUTPUT")
	})

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", cfg.Site.Profile)
	assert.Equal(t, "local.html", cfg.Site.Output, ".env.local wins over .env")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConflict))
	require.NoError(t, Init(path, true))

	t.Setenv("NATS_URL", "nats://example:4222")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://example:4222", cfg.Events.NATSURL)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" Debug "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, slog.LevelWarn, LogLevel("warning").SlogLevel())
	assert.Equal(t, slog.LevelError, LogLevelError.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogLevel("").SlogLevel())
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
