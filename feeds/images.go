package feeds

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	log "github.com/sirupsen/logrus"
)

// ImageResolver finds a preview image for a feed item. The embedded
// media metadata is probed first; only when nothing is embedded does the
// resolver fetch the linked page and look for social meta tags. Its
// timeout is independent of the feed fetch timeout, so a slow page can
// only cost one item its image.
type ImageResolver struct {
	client *http.Client
}

// NewImageResolver creates a resolver whose page fetches are bounded by
// the given timeout.
func NewImageResolver(timeout time.Duration) *ImageResolver {
	return &ImageResolver{
		client: &http.Client{Timeout: timeout},
	}
}

// Resolve returns an image URL for the item, or "" when no candidate in
// the fallback chain succeeds. Having no image is a valid terminal
// state, not an error.
func (r *ImageResolver) Resolve(ctx context.Context, item *gofeed.Item) string {
	if url := embeddedImage(item); url != "" {
		return url
	}
	if item.Link == "" {
		return ""
	}
	return r.scrapePreviewImage(ctx, item.Link)
}

// embeddedImage probes the item's media metadata in a fixed order:
// media:thumbnail, media:content, media:content nested in a media:group,
// then any enclosure with an image MIME type.
func embeddedImage(item *gofeed.Item) string {
	media := item.Extensions["media"]

	if url := firstExtensionURL(media["thumbnail"]); url != "" {
		return url
	}
	if url := firstExtensionURL(media["content"]); url != "" {
		return url
	}
	for _, group := range media["group"] {
		if url := firstExtensionURL(group.Children["content"]); url != "" {
			return url
		}
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}

func firstExtensionURL(extensions []ext.Extension) string {
	for _, e := range extensions {
		if url := e.Attrs["url"]; url != "" {
			return url
		}
	}
	return ""
}

// scrapePreviewImage fetches the linked page and scans it for an Open
// Graph image tag, then a Twitter card image tag. Every failure mode is
// swallowed and reported as "no image".
func (r *ImageResolver) scrapePreviewImage(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.WithFields(log.Fields{
			"url":   pageURL,
			"error": err,
		}).Debug("Preview image fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	return previewImageFromDocument(doc)
}

// previewImageFromDocument picks the first social preview tag present.
// Attribute selectors match regardless of the attribute order inside the
// meta tag.
func previewImageFromDocument(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	}
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}
