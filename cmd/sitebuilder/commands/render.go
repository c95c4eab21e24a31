package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/compose"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Profile string `arg:"" optional:"" help:"Profile file (YAML, JSON or Markdown). Defaults to site.profile."`
	Output  string `short:"o" help:"Output file, - for stdout. Defaults to site.output."`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := setupLogging(g, cfg, root.Verbose, os.Stderr)

	profile := firstNonEmpty(r.Profile, cfg.Site.Profile)
	output := firstNonEmpty(r.Output, cfg.Site.Output)
	p, err := content.LoadFile(profile)
	if err != nil {
		return err
	}

	doc, err := renderProfile(context.Background(), cfg, logger, p)
	if err != nil {
		return err
	}
	if output == "-" {
		_, err := io.WriteString(os.Stdout, doc)
		return err
	}
	if err := writeOutput(output, doc); err != nil {
		return err
	}
	fmt.Printf("Rendered %s to %s\n", profile, output)
	return nil
}

// renderProfile resolves the profile's references and composes the document.
// References that cannot be resolved render as placeholders.
func renderProfile(ctx context.Context, cfg *config.Config, logger *slog.Logger, p content.Profile) (string, error) {
	backend, err := openStorage(cfg, logger)
	if err != nil {
		return "", err
	}
	if backend.objects != nil {
		defer func() { _ = backend.objects.Close() }()
	}
	base, err := readBase(cfg.Site.Base)
	if err != nil {
		return "", err
	}

	ctrl := editor.New(
		editor.WithResolver(assets.NewResolver(backend.lookup,
			assets.WithScheme(cfg.Storage.RefScheme),
			assets.WithConcurrency(cfg.Resolver.Concurrency),
			assets.WithLogger(logger))),
		editor.WithLogger(logger),
	)
	ctrl.Load(submissionOf(cfg.Submissions.ID, p))
	rt := site.New(site.Options{
		Controller: ctrl,
		Composer:   compose.New(compose.WithLogger(logger)),
		Base:       base,
		Logger:     logger,
	})

	res, err := ctrl.Resolve(ctx)
	if err != nil {
		logger.Warn("Asset resolution failed, rendering placeholders", logfields.Error(err))
	}
	if res.Pending > 0 {
		logger.Warn("Some images are still pending", logfields.Count(res.Pending))
	}
	return rt.Render(res)
}

func writeOutput(path, doc string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
