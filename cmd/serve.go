package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsdesk/config"
	"newsdesk/feeds"
	"newsdesk/server"
	"newsdesk/summarizer"
)

// serveCmd represents the serve command
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the aggregated news feed over HTTP",
		Description: `Starts the newsdesk HTTP server.

GET /api/news runs a full aggregation cycle against the configured feed
registry and returns the merged article collection. POST /api/summarize
relays a summarization request to the OpenAI API.

Results are computed fresh per request; there is no cross-request cache.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the HTTP server, overrides the config file",
				EnvVars: []string{"NEWSDESK_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			port := cfg.Port()
			if ctx.IsSet("port") {
				port = ctx.Int("port")
			}

			app := server.Server(&server.ServerConfig{
				News:    newAggregator(cfg),
				Summary: summarizer.New(),
			})

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-quit
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			log.WithFields(log.Fields{
				"port":    port,
				"sources": len(cfg.Sources),
			}).Info("Starting newsdesk")

			if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
}

func newAggregator(cfg *config.Config) *feeds.Aggregator {
	images := feeds.NewImageResolver(cfg.ImageTimeout())
	parser := feeds.NewParser(images)
	fetcher := feeds.NewFetcher(cfg.FeedTimeout(), parser)
	return feeds.NewAggregator(cfg.Sources, fetcher)
}
