// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the chat bot
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Listen for links in the bot chat and record them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Bot API endpoint format (defaults to the public Telegram API)",
			},
		},
		Action: r.Serve,
	}
}

// submitCommand runs one message through the pipeline without the chat
func submitCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Process one message as if it came from the chat",
		ArgsUsage: "<message text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sender",
				Usage: "Sender ID to submit as (defaults to the first allowed sender)",
			},
		},
		Action: r.Submit,
	}
}

// queueCommand handles queue playlist operations
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Queue playlist operations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add the most popular track of an album or a track to the queue",
				ArgsUsage: "<link or uri>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "allow-duplicates",
						Usage: "Append even when the track is already queued",
					},
				},
				Action: r.QueueAdd,
			},
			{
				Name:  "list",
				Usage: "List the tracks in the queue playlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.QueueList,
			},
		},
	}
}

// ledgerCommand handles ledger operations
func ledgerCommand(r *Runner) *cli.Command {
	partition := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "partition",
			Aliases: []string{"p"},
			Usage:   "Ledger partition (defaults to the sandbox or the configured year)",
		}
	}

	return &cli.Command{
		Name:  "ledger",
		Usage: "Ledger operations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Record an album in the ledger",
				ArgsUsage: "<link or uri> [comment]",
				Action:    r.LedgerAdd,
			},
			{
				Name:  "show",
				Usage: "Print a ledger partition",
				Flags: []cli.Flag{
					partition(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LedgerShow,
			},
			{
				Name:  "export",
				Usage: "Export a ledger partition to a file",
				Flags: []cli.Flag{
					partition(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.LedgerExport,
			},
			{
				Name:    "browse",
				Aliases: []string{"ui"},
				Usage:   "Browse the ledger interactively",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "partition",
						Aliases: []string{"p"},
						Usage:   "Open this partition directly",
					},
				},
				Action: r.LedgerBrowse,
			},
		},
	}
}

// historyCommand lists recorded submissions
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent submissions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of submissions to show",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "uri",
				Usage: "Only show submissions of this entity URI",
			},
		},
		Action: r.History,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authorize access to the queue playlist using OAuth2",
				Action: r.SpotifyAuth,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
