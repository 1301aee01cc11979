package models

import "time"

// Region tags a source as domestic or international press.
type Region string

const (
	RegionDomestic      Region = "domestic"
	RegionInternational Region = "international"
)

// Valid reports whether the region is one of the known values.
func (r Region) Valid() bool {
	return r == RegionDomestic || r == RegionInternational
}

// Category is the closed set of labels the classifier can assign.
// CategoryWorld is the catch-all.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryTechnology    Category = "technology"
	CategoryScience       Category = "science"
	CategoryHealth        Category = "health"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryWorld         Category = "world"
)

// Source is one entry of the feed registry. Sources are read-only input
// to an aggregation run; the pipeline never mutates them.
type Source struct {
	URL    string `toml:"url"`
	Name   string `toml:"name"`
	Region Region `toml:"region"`
}

// Article is the normalized unit of output. The JSON field names are the
// contract with the frontend and must not change.
//
// Id is unique within one aggregation run only. It is derived from the
// source name, the item's position in its feed and the run timestamp, so
// consumers must not persist it as a durable key.
type Article struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	PubDate     time.Time `json:"pubDate"`
	Source      string    `json:"source"`
	Category    Category  `json:"category"`
	Region      Region    `json:"region"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

// NewsResponse is the payload of the news endpoint. Error is only set
// when the whole pipeline failed; individual feed failures are invisible
// to the caller.
type NewsResponse struct {
	Articles []Article `json:"articles"`
	Error    string    `json:"error,omitempty"`
}
