package feeds

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdesk/models"
)

// Each feed contributes at most this many items per run, taken in the
// feed's own order. The cap applies before the global sort.
const maxItemsPerFeed = 10

const (
	placeholderTitle       = "No title available"
	placeholderDescription = "No description available"
	placeholderLink        = "#"
)

// Parser turns one feed document into normalized articles.
type Parser struct {
	images *ImageResolver
}

// NewParser creates a parser that resolves images through the given
// resolver.
func NewParser(images *ImageResolver) *Parser {
	return &Parser{images: images}
}

// Parse normalizes a raw feed document. gofeed's universal parser
// detects the schema family (RSS 2.0 channel/item or Atom entry list)
// and rejects anything else, which the fetcher treats as a feed failure.
//
// Items of one feed resolve their images concurrently so the feed's
// latency stays near one page round trip instead of ten. Each goroutine
// writes only its own slot; no locking is needed.
func (p *Parser) Parse(ctx context.Context, data []byte, source models.Source, now time.Time) ([]models.Article, error) {
	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", source.Name, err)
	}

	items := feed.Items
	if len(items) > maxItemsPerFeed {
		items = items[:maxItemsPerFeed]
	}

	articles := make([]models.Article, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item *gofeed.Item) {
			defer wg.Done()
			articles[i] = p.normalize(ctx, item, source, i, now)
		}(i, item)
	}
	wg.Wait()

	return articles, nil
}

func (p *Parser) normalize(ctx context.Context, item *gofeed.Item, source models.Source, index int, now time.Time) models.Article {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = placeholderTitle
	}
	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = placeholderDescription
	}
	link := item.Link
	if link == "" {
		link = placeholderLink
	}

	// An item without any date sorts as most recent. Sharp but
	// deliberate: the alternative would be to guess an age for it.
	published := now
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return models.Article{
		Id:          fmt.Sprintf("%s-%d-%d", source.Name, index, now.UnixMilli()),
		Title:       title,
		Description: description,
		Link:        link,
		PubDate:     published,
		Source:      source.Name,
		Region:      source.Region,
		Category:    Categorize(title, description, categoryHint(item.Categories)),
		ImageURL:    p.images.Resolve(ctx, item),
	}
}

// categoryHint collapses the possible shapes of a source-declared
// category (absent, a single string, a list) into one canonical
// lowercase string before it reaches the classifier. A list is
// represented by its first element.
func categoryHint(categories []string) string {
	for _, category := range categories {
		if hint := strings.ToLower(strings.TrimSpace(category)); hint != "" {
			return hint
		}
	}
	return ""
}
