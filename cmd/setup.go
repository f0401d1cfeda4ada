package main

import (
	"context"
	"fmt"

	"github.com/adrg/xdg"
	"github.com/desertthunder/player/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the starter configuration file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if cmd.Bool("xdg") {
		var err error
		if path, err = xdg.ConfigFile("player/" + shared.ConfigFileName); err != nil {
			return fmt.Errorf("failed to resolve config dir: %w", err)
		}
	}

	r.logger.Info("creating config file", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point library.paths at your music directories\n")
	r.writePlain("2. Run 'player serve' and open http://%s/\n", r.config.Server.Addr())
	return nil
}
