package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"newsdesk/models"
	"newsdesk/summarizer"
)

// NewsProvider runs one aggregation cycle. Satisfied by feeds.Aggregator.
type NewsProvider interface {
	Aggregate(ctx context.Context) []models.Article
}

// Summarizer relays a summarization request to the upstream API.
type Summarizer interface {
	Summarize(ctx context.Context, title, description, apiKey string) (string, error)
}

type ServerConfig struct {

	// News is the aggregation pipeline behind the news endpoint
	News NewsProvider

	// Summary is the summarization relay; may be nil when serving
	// the pipeline only
	Summary Summarizer
}

// Returns a fiber.App instance serving the newsdesk HTTP API
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New())

	app.Get("/api/news", func(c *fiber.Ctx) error {
		articles, err := runPipeline(c.Context(), config.News)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("News pipeline failed")

			return c.Status(fiber.StatusInternalServerError).JSON(models.NewsResponse{
				Error:    "Failed to fetch news",
				Articles: []models.Article{},
			})
		}

		return c.JSON(models.NewsResponse{Articles: articles})
	})

	app.Post("/api/summarize", func(c *fiber.Ctx) error {
		return handleSummarize(c, config.Summary)
	})

	return app
}

// runPipeline converts a panic escaping the per-feed isolation boundary
// (a defect in the merge or sort stage) into a collection-level error.
// Individual feed failures never reach this point.
func runPipeline(ctx context.Context, news NewsProvider) (articles []models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline failure: %v", r)
		}
	}()
	return news.Aggregate(ctx), nil
}

type summarizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	APIKey      string `json:"apiKey"`
}

func handleSummarize(c *fiber.Ctx, summary Summarizer) error {
	if summary == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "Summarization is not enabled",
		})
	}

	var req summarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" && req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title or description is required",
		})
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OpenAI API key is required",
		})
	}

	result, err := summary.Summarize(c.Context(), req.Title, req.Description, apiKey)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Error("Summarization failed")

		var apiErr *summarizer.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case fiber.StatusUnauthorized:
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid API key. Please check your OpenAI API key in settings.",
				})
			case fiber.StatusTooManyRequests:
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded. Please try again later.",
				})
			default:
				return c.Status(apiErr.StatusCode).JSON(fiber.Map{
					"error": fmt.Sprintf("OpenAI API error: %s", apiErr.Status),
				})
			}
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to call OpenAI API. Please check your API key.",
		})
	}

	return c.JSON(fiber.Map{"summary": result})
}
