package cmd

import (
	"fmt"

	"github.com/cqroot/prompt"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"newsdesk/config"
	"newsdesk/models"
)

// addCmd represents the add command
func addCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new feed source",
		Description: `Interactively registers a new feed source in the registry.

Asks for the feed URL, a display name and the region and appends the
source to the configuration file.`,
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(ctx *cli.Context) error {
			path := ctx.String("config")

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			url, err := prompt.New().Ask("Feed URL:").Input("https://example.com/rss")
			if err != nil {
				return err
			}

			name, err := prompt.New().Ask("Display name:").Input("")
			if err != nil {
				return err
			}

			region, err := prompt.New().Ask("Region:").Choose([]string{
				string(models.RegionDomestic),
				string(models.RegionInternational),
			})
			if err != nil {
				return err
			}

			_, exists := lo.Find(cfg.Sources, func(s models.Source) bool {
				return s.URL == url
			})
			if exists {
				return fmt.Errorf("a source with url %s is already registered", url)
			}

			cfg.Sources = append(cfg.Sources, models.Source{
				URL:    url,
				Name:   name,
				Region: models.Region(region),
			})

			if err := config.Write(path, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Printf("Registered %s (%s)\n", name, region)
			return nil
		},
	}
}
