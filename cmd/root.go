package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "newsdesk",
		Usage: "An aggregated news feed over heterogeneous RSS and Atom sources",
		Description: `Newsdesk collects the feeds listed in a TOML registry, normalizes
		their items into one deduplicated, chronologically ordered collection
		and serves it over an HTTP API.

		Every aggregation cycle fetches all sources in parallel; a broken or
		slow feed only loses its own items for that cycle, never the run.

		Flags can generally be set via environment variables, e.g.:

		--config => NEWSDESK_CONFIG=config/sources.toml
		--port => NEWSDESK_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			addCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config/sources.toml",
		Usage:   "Path to the feed registry configuration file",
		EnvVars: []string{"NEWSDESK_CONFIG"},
	}
}
