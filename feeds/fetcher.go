package feeds

import (
	"context"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"newsdesk/models"
)

const userAgent = "newsdesk/1.0 (news aggregator)"

// Fetcher retrieves one feed over HTTP and hands it to the parser.
type Fetcher struct {
	client *http.Client
	parser *Parser
}

// NewFetcher creates a fetcher whose feed requests are bounded by the
// given timeout. The timeout is per feed and independent of siblings.
func NewFetcher(timeout time.Duration, parser *Parser) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: parser,
	}
}

// Fetch retrieves and normalizes one source's items. Every failure mode
// collapses to an empty slice: a broken feed is logged and contributes
// nothing, it never aborts the rest of the run. There is no retry; the
// pipeline is re-run on every request anyway.
func (f *Fetcher) Fetch(ctx context.Context, source models.Source, now time.Time) []models.Article {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		logFeedFailure(source, err, 0)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logFeedFailure(source, err, 0)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logFeedFailure(source, nil, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logFeedFailure(source, err, resp.StatusCode)
		return nil
	}

	articles, err := f.parser.Parse(ctx, body, source, now)
	if err != nil {
		logFeedFailure(source, err, resp.StatusCode)
		return nil
	}

	log.WithFields(log.Fields{
		"source": source.Name,
		"count":  len(articles),
	}).Debug("Fetched feed")
	return articles
}

func logFeedFailure(source models.Source, err error, status int) {
	log.WithFields(log.Fields{
		"source": source.Name,
		"url":    source.URL,
		"status": status,
		"error":  err,
	}).Warn("Skipping feed for this cycle")
}
