// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// libraryCommand handles local catalog operations.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Local track catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import tracks from a JSON manifest",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "manifest",
					},
				},
				Action: r.LibraryImport,
			},
			{
				Name:  "list",
				Usage: "List catalog tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "missing",
						Usage: "Only tracks without lyrics",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "stats",
				Usage: "Show lyrics coverage counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryStats,
			},
			{
				Name:  "export",
				Usage: "Write the catalog to a file (format from extension: .csv, .md, .json, else text)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "missing",
						Usage: "Only tracks without lyrics",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// downloadCommand handles bulk lyrics downloads.
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Bulk lyrics download",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Download lyrics for the whole library",
				Flags: append(downloadFlags(r),
					&cli.StringFlag{
						Name:    "report",
						Aliases: []string{"o"},
						Usage:   "Write a run report (format from extension: .csv, .md, .json, else text)",
					},
				),
				Action: r.DownloadRun,
			},
			{
				Name:    "tui",
				Aliases: []string{"interactive", "ui"},
				Usage:   "Interactive download with live progress",
				Flags:   downloadFlags(r),
				Action:  r.DownloadTUI,
			},
		},
	}
}

// downloadFlags builds the per-run policy flags, defaulted from config.
func downloadFlags(r *Runner) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "scope",
			Usage: "Which tracks to consider: all, skip_synced, skip_plain",
			Value: scopeFromConfig(r.config),
		},
		&cli.StringFlag{
			Name:  "prefer",
			Usage: "Lyrics type preference: both, synced_only, plain_only",
			Value: r.config.Match.LyricsTypePreference,
		},
		&cli.FloatFlag{
			Name:  "tolerance",
			Usage: "Duration tolerance in seconds (0 to 5)",
			Value: r.config.Match.DurationTolerance,
		},
		&cli.BoolFlag{
			Name:  "fuzzy",
			Usage: "Fall back to fuzzy search when exact lookups miss",
			Value: r.config.Match.FuzzySearch,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent track processors",
			Value: r.config.Download.Workers,
		},
	}
}

// searchCommand queries the remote lyrics service.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the lyrics service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Track title",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist name",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album name",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Free-text query",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// getCommand fetches one remote entry by id.
func getCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Fetch one lyrics entry by remote id",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Get,
	}
}

// publishCommand uploads a library track's stored lyrics.
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish a library track's stored lyrics to the service",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Library track id",
				Required: true,
			},
		},
		Action: r.Publish,
	}
}

// flagCommand reports a bad remote entry.
func flagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "flag",
		Usage: "Report a bad lyrics entry",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "reason",
				Usage:    "Why the entry is wrong",
				Required: true,
			},
		},
		Action: r.Flag,
	}
}

// configCommand inspects and initializes configuration.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ConfigShow,
			},
			{
				Name:  "init",
				Usage: "Write a config file from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
