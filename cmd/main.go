package main

import (
	"context"
	"os"

	"github.com/desertthunder/classificone/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := newApp(runner)

	err := app.Run(context.Background(), os.Args)
	if closeErr := runner.Close(); closeErr != nil {
		logger.Warn("failed to release resources", "error", closeErr)
	}

	if err != nil {
		runner.logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command with the global --config flag.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "classificone",
		Usage:   "Collect album links from a chat into a Spotify queue and a yearly ledger",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("CLASSIFICONE_CONFIG"),
			},
		},
		Commands: r.register(),
	}
}
