package feeds

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"newsdesk/models"
)

// Aggregator fans the fetcher out across the whole registry and merges
// the per-feed results into one chronologically ordered collection.
type Aggregator struct {
	sources []models.Source
	fetcher *Fetcher
}

// NewAggregator creates an aggregator over the given registry. The
// registry is read-only and shared by all branches of a run.
func NewAggregator(sources []models.Source, fetcher *Fetcher) *Aggregator {
	return &Aggregator{
		sources: sources,
		fetcher: fetcher,
	}
}

// Aggregate runs one full collection cycle: every source is fetched
// concurrently, all branches are joined, and the merged result is
// sorted by publish date descending. Each branch writes only its own
// slot of the results slice, so the join needs no locking.
//
// An empty result is a valid outcome; if every feed failed the caller
// gets an empty slice, not an error.
func (a *Aggregator) Aggregate(ctx context.Context) []models.Article {
	now := time.Now()

	results := make([][]models.Article, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source models.Source) {
			defer wg.Done()
			results[i] = a.fetcher.Fetch(ctx, source, now)
		}(i, source)
	}
	wg.Wait()

	articles := lo.Flatten(results)

	// Stable so that items sharing a publish date keep their merge
	// order; no secondary sort key is defined.
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PubDate.After(articles[j].PubDate)
	})

	log.WithFields(log.Fields{
		"sources":  len(a.sources),
		"articles": len(articles),
		"took":     time.Since(now),
	}).Info("Aggregation cycle complete")

	return articles
}
