package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/classificone/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the built-in config template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Fill in [bot], [spotify] and [ledger] (or set TELEGRAM_TOKEN, SPOTIFY_ID, SPOTIFY_SECRET)\n")
	r.writePlain("2. Run 'classificone auth spotify' to authorize the queue playlist account\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	if _, err := r.database(); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", config.Database.Path)
}
