package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/submissions"
)

// ServeCmd serves a submission stored in the submissions database.
type ServeCmd struct {
	Submission string `short:"s" name:"submission" help:"Submission id. Overrides submissions.id."`
	Addr       string `name:"addr" help:"Listen address. Overrides server.addr."`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := setupLogging(g, cfg, root.Verbose, os.Stderr)
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Submission != "" {
		cfg.Submissions.ID = s.Submission
	}

	a, err := newApp(cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sub, err := loadSubmission(ctx, a.store, cfg.Submissions.ID, cfg.Site.Profile, logger)
	if err != nil {
		return err
	}
	a.runtime.Controller().Load(sub)
	return a.run(ctx)
}

// loadSubmission returns the stored submission id. A submission that does
// not exist yet is imported from the profile file.
func loadSubmission(ctx context.Context, store submissions.Store, id, profile string, logger *slog.Logger) (content.Submission, error) {
	sub, err := store.Load(ctx, id)
	if err == nil {
		return sub, nil
	}
	if !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		return content.Submission{}, err
	}

	if _, statErr := os.Stat(profile); errors.Is(statErr, fs.ErrNotExist) {
		logger.Info("Starting an empty submission", logfields.SubmissionID(id))
		sub = content.Submission{ID: id}
	} else {
		p, err := content.LoadFile(profile)
		if err != nil {
			return content.Submission{}, err
		}
		sub = submissionOf(id, p)
		logger.Info("Importing profile", logfields.SubmissionID(id), logfields.Path(profile))
	}
	if _, err := store.Import(ctx, sub); err != nil {
		return content.Submission{}, err
	}
	return store.Load(ctx, id)
}
