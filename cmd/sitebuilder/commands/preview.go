package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
)

// PreviewCmd edits a profile file in place with live preview.
type PreviewCmd struct {
	Profile string `arg:"" optional:"" help:"Profile file to edit. Defaults to site.profile."`
	Addr    string `name:"addr" help:"Listen address. Overrides server.addr."`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := setupLogging(g, cfg, root.Verbose, os.Stderr)
	if p.Addr != "" {
		cfg.Server.Addr = p.Addr
	}

	path := firstNonEmpty(p.Profile, cfg.Site.Profile)
	prof, err := content.LoadFile(path)
	if err != nil {
		return err
	}
	id := filepath.Base(path)
	file := newProfileFile(path, prof.Photos)

	a, err := newApp(cfg, logger, appOptions{Persister: file})
	if err != nil {
		return err
	}
	defer a.close()
	ctrl := a.runtime.Controller()
	ctrl.Load(submissionOf(id, prof))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		err := preview.Watch(ctx, []string{path}, cfg.Preview.DebounceDuration(), func() {
			reloadProfile(ctrl, file, id, logger)
		})
		if err != nil {
			logger.Error("Profile watch stopped", logfields.Error(err))
		}
	}()
	logger.Info("Watching profile", logfields.Path(path))
	return a.run(ctx)
}

// reloadProfile replaces the editor's record with the file's contents.
func reloadProfile(ctrl *editor.Controller, file *profileFile, id string, logger *slog.Logger) {
	prof, err := content.LoadFile(file.path)
	if err != nil {
		logger.Warn("Ignoring unreadable profile", logfields.Path(file.path), logfields.Error(err))
		return
	}
	if ctrl.State() == editor.StateDirty {
		logger.Warn("Profile changed on disk, discarding unsaved edits", logfields.Path(file.path))
	}
	file.setPhotos(prof.Photos)
	ctrl.Load(submissionOf(id, prof))
}

// profileFile persists saves back to the profile being previewed.
type profileFile struct {
	path string

	mu     sync.Mutex
	photos []string
}

func newProfileFile(path string, photos []string) *profileFile {
	return &profileFile{path: path, photos: slices.Clone(photos)}
}

func (f *profileFile) setPhotos(photos []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = slices.Clone(photos)
}

// Save writes rec with the current photo pool to the profile file.
func (f *profileFile) Save(_ context.Context, _ string, rec content.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return content.SaveFile(f.path, content.Profile{Record: rec, Photos: slices.Clone(f.photos)})
}
