// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/player/internal/formatter"
	"github.com/desertthunder/player/internal/search"
	"github.com/urfave/cli/v3"
)

// sourceFlags selects where pipeline commands read song metadata from.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Metadata endpoint URL (default: source.meta_url)",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read metadata from a JSON file instead of a server",
		},
		&cli.StringFlag{
			Name:    "engine",
			Aliases: []string{"e"},
			Usage:   "Search engine: " + strings.Join(search.Engines(), ", "),
		},
	}
}

func withSourceFlags(flags ...cli.Flag) []cli.Flag {
	return append(sourceFlags(), flags...)
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Where to write the file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "xdg",
				Usage: "Write to the XDG config dir instead of --output",
			},
		},
		Action: r.Setup,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Scan the library and serve metadata, downloads and the player page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: server.port)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Path prefix to strip from requests (default: server.prefix)",
			},
			&cli.StringSliceFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Directory to scan, repeatable (default: library.paths)",
			},
			&cli.StringFlag{
				Name:    "engine",
				Aliases: []string{"e"},
				Usage:   "Search engine: " + strings.Join(search.Engines(), ", "),
			},
		},
		Action: r.Serve,
	}
}

func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Inspect the local music library",
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "Scan library directories and list tagged audio files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "library",
						Aliases: []string{"l"},
						Usage:   "Directory to scan, repeatable (default: library.paths)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output song metadata as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print scan progress",
					},
				},
				Action: r.LibraryScan,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Build the player playlist from a metadata source",
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "Print the playlist markup",
				Flags:  sourceFlags(),
				Action: r.PlaylistRender,
			},
			{
				Name:  "config",
				Usage: "Print the player configuration as JSON",
				Flags: withSourceFlags(
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				),
				Action: r.PlaylistConfig,
			},
			{
				Name:  "export",
				Usage: "Write the sorted playlist to a file",
				Flags: withSourceFlags(
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: " + strings.Join(formatter.Formats(), ", "),
						Value: "md",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: {title}.{format})",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Playlist title",
						Value:   "Library",
					},
				),
				Action: r.PlaylistExport,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search song metadata",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: withSourceFlags(
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (0 for all)",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		),
		Action: r.Search,
	}
}

func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui"},
		Usage:   "Browse and search the playlist in the terminal",
		Flags: withSourceFlags(
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the UI owns the terminal",
				Value: "./tmp/player-tui.log",
			},
		),
		Action: r.Browse,
	}
}
