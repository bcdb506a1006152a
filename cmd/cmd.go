// submodule cmd contains command and flag definitions
package main

import "github.com/urfave/cli/v3"

// rootFlags is the flat flag surface of the export command. Flag values win
// over config-file values when explicitly set.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Export every playlist in your library plus Liked Songs",
		},
		&cli.StringSliceFlag{
			Name:    "playlist",
			Aliases: []string{"p"},
			Usage:   "Playlist to export, by name, ID, URL or URI (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Export a user's public playlists (repeatable)",
		},
		&cli.BoolFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "List your playlists without exporting",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory for exported files",
		},
		&cli.StringSliceFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format, csv or json (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "uris",
			Usage: "Include artist and album URI columns",
		},
		&cli.BoolFlag{
			Name:  "external-ids",
			Usage: "Include ISRC and UPC columns",
		},
		&cli.BoolFlag{
			Name:  "no-bar",
			Usage: "Disable the progress bar",
		},
		&cli.StringFlag{
			Name:  "sort-key",
			Usage: "Column to sort tracks by (default: playlist order)",
		},
		&cli.BoolFlag{
			Name:  "reverse",
			Usage: "Reverse the sort order",
		},
	}
}

// authCommand runs the browser OAuth2 flow and saves tokens to the config file.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Auth,
	}
}
