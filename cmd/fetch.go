package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsdesk/config"
)

// fetchCmd represents the one-shot fetch command
func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run one aggregation cycle and print the articles",
		Description: `Runs a single aggregation cycle against the configured feed registry
and prints every article as a JSON object on a single line. Use a tool
like jq to process the output.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the JSON lines
			log.SetOutput(os.Stderr)

			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			articles := newAggregator(cfg).Aggregate(ctx.Context)

			for _, article := range articles {
				line, err := json.Marshal(article)
				if err == nil {
					fmt.Println(string(line))
				}
			}
			return nil
		},
	}
}
