// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to configuration file",
	Value:   "config.toml",
}

// setupCommand initializes the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file, initialize the database and run migrations",
		Flags:  []cli.Flag{configFlag},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand lists the user's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List Spotify playlists",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to show",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// filterCommand runs a filter pass against a target playlist.
func filterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "filter",
		Usage: "Remove unavailable tracks and duplicates from a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Target playlist link, URI or id",
			},
			&cli.StringSliceFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Filter playlist link, URI or id (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "liked",
				Usage: "Use Liked Songs as a filter source",
			},
			&cli.BoolFlag{
				Name:  "unavailable",
				Usage: "Remove local and unplayable tracks",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "duplicates",
				Usage: "Remove cross-playlist and in-playlist duplicates",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Build the removal plan but remove nothing",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Re-fetch the playlist after removal and report ids still present",
			},
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Duplicate score threshold (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "Pick the target and filter sources interactively",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the report to a file (text, markdown or csv)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report file path",
			},
		},
		Action: r.Filter,
	}
}

// runsCommand lists recorded filter runs.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded filter runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Only show runs for this playlist id",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Runs,
	}
}

// snapshotCommand saves playlists to local files before destructive runs.
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"backup"},
		Usage:   "Save playlists to local files (pass playlist links or ids as arguments)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Snapshot format: json, csv or txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent snapshot writers",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum fetches per second",
			},
		},
		Action: r.Snapshot,
	}
}

// serveCommand starts the web interface.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}
