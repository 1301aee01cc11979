package feeds_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/feeds"
	"newsdesk/models"
)

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func healthyFeedBody(title string, items int) string {
	doc := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>` + title + `</title>`
	for i := 0; i < items; i++ {
		doc += fmt.Sprintf(
			`<item><title>%s item %d</title><link>https://example.com/%d</link><pubDate>Mon, 0%d Jan 2024 12:00:00 GMT</pubDate></item>`,
			title, i, i, i+1)
	}
	return doc + `</channel></rss>`
}

func newTestAggregator(t *testing.T, timeout time.Duration, sources ...models.Source) *feeds.Aggregator {
	t.Helper()
	parser := feeds.NewParser(feeds.NewImageResolver(timeout))
	fetcher := feeds.NewFetcher(timeout, parser)
	return feeds.NewAggregator(sources, fetcher)
}

func TestAggregateSortsByPubDateDescending(t *testing.T) {
	first := feedServer(t, healthyFeedBody("alpha", 3))
	second := feedServer(t, healthyFeedBody("beta", 3))

	aggregator := newTestAggregator(t, 2*time.Second,
		models.Source{URL: first.URL, Name: "Alpha", Region: models.RegionDomestic},
		models.Source{URL: second.URL, Name: "Beta", Region: models.RegionInternational},
	)

	articles := aggregator.Aggregate(context.Background())
	require.Len(t, articles, 6)

	for i := 1; i < len(articles); i++ {
		assert.False(t, articles[i].PubDate.After(articles[i-1].PubDate),
			"articles must be ordered by pubDate non-increasing")
	}
}

func TestAggregateIsolatesFailingFeeds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "definitely not xml")
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(500 * time.Millisecond)
				fmt.Fprint(w, healthyFeedBody("slow", 2))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy := feedServer(t, healthyFeedBody("healthy", 2))
			broken := httptest.NewServer(tt.handler)
			defer broken.Close()

			aggregator := newTestAggregator(t, 200*time.Millisecond,
				models.Source{URL: broken.URL, Name: "Broken", Region: models.RegionDomestic},
				models.Source{URL: healthy.URL, Name: "Healthy", Region: models.RegionDomestic},
			)

			articles := aggregator.Aggregate(context.Background())
			require.Len(t, articles, 2, "only the healthy feed contributes")
			for _, article := range articles {
				assert.Equal(t, "Healthy", article.Source)
			}
		})
	}
}

func TestAggregateEmptyRegistry(t *testing.T) {
	aggregator := newTestAggregator(t, time.Second)
	articles := aggregator.Aggregate(context.Background())
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestAggregateAllFeedsFailing(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	aggregator := newTestAggregator(t, time.Second,
		models.Source{URL: broken.URL, Name: "Broken A", Region: models.RegionDomestic},
		models.Source{URL: broken.URL, Name: "Broken B", Region: models.RegionInternational},
	)

	articles := aggregator.Aggregate(context.Background())
	assert.Empty(t, articles)
}

func TestAggregateMissingDateSortsFirst(t *testing.T) {
	undated := feedServer(t, `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>undated</title>
		<item><title>Undated story</title><link>https://example.com/u</link></item>
	</channel></rss>`)
	dated := feedServer(t, healthyFeedBody("dated", 3))

	start := time.Now()
	aggregator := newTestAggregator(t, 2*time.Second,
		models.Source{URL: dated.URL, Name: "Dated", Region: models.RegionDomestic},
		models.Source{URL: undated.URL, Name: "Undated", Region: models.RegionDomestic},
	)

	articles := aggregator.Aggregate(context.Background())
	require.Len(t, articles, 4)

	assert.Equal(t, "Undated story", articles[0].Title)
	assert.False(t, articles[0].PubDate.Before(start))
}

func TestAggregateCapsItemsPerFeed(t *testing.T) {
	big := feedServer(t, healthyFeedBody("big", 9)) // under the cap
	huge := feedServer(t, func() string {
		doc := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>huge</title>`
		for i := 0; i < 25; i++ {
			doc += fmt.Sprintf(`<item><title>huge item %d</title></item>`, i)
		}
		return doc + `</channel></rss>`
	}())

	aggregator := newTestAggregator(t, 2*time.Second,
		models.Source{URL: big.URL, Name: "Big", Region: models.RegionDomestic},
		models.Source{URL: huge.URL, Name: "Huge", Region: models.RegionDomestic},
	)

	articles := aggregator.Aggregate(context.Background())

	counts := map[string]int{}
	for _, article := range articles {
		counts[article.Source]++
	}
	assert.Equal(t, 9, counts["Big"])
	assert.Equal(t, 10, counts["Huge"])
}
