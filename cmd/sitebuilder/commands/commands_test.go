package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/sections"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
	"git.home.luguber.info/inful/sitebuilder/internal/submissions"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Dir = filepath.Join(dir, "data")
	cfg.Submissions.Database = filepath.Join(dir, "data", "submissions.db")
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func harborProfile() content.Profile {
	return content.Profile{Record: content.Record{
		BusinessName: "Harbor Bakery",
		Tagline:      "Fresh bread daily",
		About:        "We bake.",
	}}
}

func TestPrintStyles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStyles(&buf, false))
	out := buf.String()
	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "SCHEME")
	assert.Contains(t, out, "PAIRING")
	assert.Contains(t, out, "hero")

	buf.Reset()
	require.NoError(t, printStyles(&buf, true))
	var catalog []sections.KindInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &catalog))
	assert.Len(t, catalog, len(content.Kinds))
}

func TestWriteExampleProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.md")
	require.NoError(t, writeExampleProfile(path, false))

	p, err := content.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Your Business", p.BusinessName)
	assert.NotEmpty(t, p.NavbarLinks)
	assert.Nil(t, p.HeroImages, "galleries fall back to the photo pool")
	assert.Nil(t, p.AboutImages)
	require.NoError(t, content.Validate(p.Record))

	err = writeExampleProfile(path, false)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConflict))
	require.NoError(t, writeExampleProfile(path, true))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(&CLI{Config: config.DefaultPath})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAddr, cfg.Server.Addr)

	_, err = loadConfig(&CLI{Config: "elsewhere.yaml"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestSetupLogging_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.Monitoring.Logging.Format = config.LogFormatJSON
	cfg.Monitoring.Logging.Level = config.LogLevelWarn

	var buf bytes.Buffer
	g := &Global{}
	logger := setupLogging(g, cfg, false, &buf)
	t.Cleanup(func() { slog.SetDefault(quietLogger()) })

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))
	assert.Same(t, logger, g.Logger)
	assert.NotContains(t, buf.String(), "hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["msg"])

	buf.Reset()
	setupLogging(g, cfg, true, &buf).Debug("verbose wins")
	assert.Contains(t, buf.String(), "verbose wins")
}

func TestRenderProfile(t *testing.T) {
	cfg := testConfig(t)
	p := harborProfile()
	p.Logo = "storage:" + strings.Repeat("a", 64)

	doc, err := renderProfile(context.Background(), cfg, quietLogger(), p)
	require.NoError(t, err)
	assert.Contains(t, doc, "Harbor Bakery")
	assert.Contains(t, doc, "<html")

	out := filepath.Join(t.TempDir(), "public", "index.html")
	require.NoError(t, writeOutput(out, doc))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestRenderProfile_CustomBase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.Base = filepath.Join(t.TempDir(), "base.html")
	require.NoError(t, os.WriteFile(cfg.Site.Base, []byte(`<!DOCTYPE html><html><head><title>x</title></head><body><p id="keep">kept</p></body></html>`), 0o600))

	doc, err := renderProfile(context.Background(), cfg, quietLogger(), harborProfile())
	require.NoError(t, err)
	assert.Contains(t, doc, `id="keep"`)
	assert.Contains(t, doc, "Harbor Bakery")

	cfg.Site.Base = filepath.Join(t.TempDir(), "missing.html")
	_, err = renderProfile(context.Background(), cfg, quietLogger(), harborProfile())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestLoadSubmission_ImportsProfileOnce(t *testing.T) {
	dir := t.TempDir()
	store, err := submissions.NewSQLiteStore(filepath.Join(dir, "subs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	profile := filepath.Join(dir, "site.yaml")
	require.NoError(t, content.SaveFile(profile, harborProfile()))

	ctx := context.Background()
	sub, err := loadSubmission(ctx, store, "default", profile, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "default", sub.ID)
	assert.Equal(t, "Harbor Bakery", sub.Record.BusinessName)

	// later edits to the file don't override the stored record
	other := harborProfile()
	other.BusinessName = "Changed"
	require.NoError(t, content.SaveFile(profile, other))
	sub, err = loadSubmission(ctx, store, "default", profile, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "Harbor Bakery", sub.Record.BusinessName)

	sub, err = loadSubmission(ctx, store, "blank", filepath.Join(dir, "none.yaml"), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "blank", sub.ID)
	assert.Empty(t, sub.Record.BusinessName)
}

func TestProfileFile_SaveKeepsPhotos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	f := newProfileFile(path, []string{"storage:p1"})

	rec := harborProfile().Record
	require.NoError(t, f.Save(context.Background(), "site.yaml", rec))
	p, err := content.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Bakery", p.BusinessName)
	assert.Equal(t, []string{"storage:p1"}, p.Photos)
}

func TestReloadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, content.SaveFile(path, harborProfile()))
	f := newProfileFile(path, nil)

	ctrl := editor.New()
	p, err := content.LoadFile(path)
	require.NoError(t, err)
	ctrl.Load(submissionOf("site.yaml", p))

	changed := harborProfile()
	changed.Tagline = "Now with croissants"
	changed.Photos = []string{"storage:p2"}
	require.NoError(t, content.SaveFile(path, changed))

	reloadProfile(ctrl, f, "site.yaml", quietLogger())
	snap := ctrl.Snapshot()
	assert.Equal(t, "Now with croissants", snap.Record.Tagline)
	assert.Equal(t, []string{"storage:p2"}, snap.Photos)

	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))
	reloadProfile(ctrl, f, "site.yaml", quietLogger())
	assert.Equal(t, "Now with croissants", ctrl.Snapshot().Record.Tagline)
}

func TestNewApp_WiresLocalStorage(t *testing.T) {
	cfg := testConfig(t)
	a, err := newApp(cfg, quietLogger(), appOptions{})
	require.NoError(t, err)
	defer a.close()

	require.NotNil(t, a.storage)
	require.NotNil(t, a.store)
	assert.DirExists(t, filepath.Join(cfg.Storage.Dir, "objects"))

	ctrl := a.runtime.Controller()
	ctrl.Load(submissionOf("default", harborProfile()))
	ref, err := ctrl.Upload(context.Background(), content.ImageLogo, storage.File{
		Name: "logo.png",
		Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-test"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, content.DefaultRefScheme+":"))

	require.NoError(t, ctrl.Save(context.Background()))
	list, err := a.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Harbor Bakery", list[0].BusinessName)
}

func TestNewApp_RemoteStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.RemoteURL = "http://storage.invalid"
	a, err := newApp(cfg, quietLogger(), appOptions{Persister: newProfileFile(filepath.Join(t.TempDir(), "p.yaml"), nil)})
	require.NoError(t, err)
	defer a.close()

	assert.Nil(t, a.storage)
	assert.Nil(t, a.store)
	assert.Nil(t, a.objects)
}
