package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force   bool   `help:"Overwrite existing files"`
	Profile string `name:"profile" help:"Example profile to write (.yaml, .json or .md)" default:"site.yaml"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Println("Initializing sitebuilder project")
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Printf("Writing example profile to %s\n", i.Profile)
	if err := writeExampleProfile(i.Profile, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}

func writeExampleProfile(path string, force bool) error {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) && !force {
		return ferrors.ConflictError("profile already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	rec := content.Record{
		BusinessName: "Your Business",
		Tagline:      "What you do, in one line",
		About:        "Tell visitors who you are and why they should work with you.",
	}
	content.EnsureDefaults(&rec)
	return content.SaveFile(path, content.Profile{Record: rec})
}
