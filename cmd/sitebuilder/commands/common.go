// Package commands implements the sitebuilder command line.
package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render  RenderCmd  `cmd:"" help:"Render a profile to a static HTML document"`
	Preview PreviewCmd `cmd:"" help:"Edit a profile with live preview, reloading when the file changes"`
	Serve   ServeCmd   `cmd:"" help:"Serve the editor API and preview for a stored submission"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration and profile"`
	Styles  StylesCmd  `cmd:"" help:"List section styles, color schemes and font pairings"`
}

// AfterApply installs a text logger until the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration file. A missing file at the default
// path yields the built-in defaults.
func loadConfig(root *CLI) (*config.Config, error) {
	if root.Config == config.DefaultPath {
		if _, err := os.Stat(root.Config); errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No configuration file, using defaults", slog.String("path", root.Config))
			return config.Default(), nil
		}
	}
	return config.Load(root.Config)
}

// setupLogging replaces the bootstrap logger with the configured handler.
// --verbose always wins over the configured level.
func setupLogging(g *Global, cfg *config.Config, verbose bool, w io.Writer) *slog.Logger {
	level := cfg.Monitoring.Logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Monitoring.Logging.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	g.Logger = logger
	return logger
}
