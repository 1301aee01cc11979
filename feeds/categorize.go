// Package feeds implements the aggregation pipeline: fetching the
// registered feeds in parallel, normalizing their items, resolving
// preview images and classifying every article.
package feeds

import (
	"strings"

	"newsdesk/models"
)

// hintRules map a source-declared category onto a label. Checked in
// order, first substring match wins. A hint that matches nothing falls
// through to the keyword scan; it is not a terminal signal.
var hintRules = []struct {
	needles  []string
	category models.Category
}{
	{[]string{"business", "economy", "finance"}, models.CategoryBusiness},
	{[]string{"tech", "science"}, models.CategoryTechnology},
	{[]string{"health", "medical"}, models.CategoryHealth},
	{[]string{"sport"}, models.CategorySports},
	{[]string{"entertainment", "culture"}, models.CategoryEntertainment},
}

// keywordSets drive classification when the source gave no usable hint.
// The order is part of the contract: the first set with any hit in the
// article text decides the category, so an article mentioning both
// "stock" and "vaccine" is business, never health.
var keywordSets = []struct {
	category models.Category
	keywords []string
}{
	{models.CategoryBusiness, []string{
		"stock", "market", "economy", "economic", "finance", "earnings",
		"investment", "investor", "trade deal", "inflation", "bank",
	}},
	{models.CategoryTechnology, []string{
		"tech", "software", "startup", "smartphone", "semiconductor",
		"artificial intelligence", "cyber", "robot", "internet",
	}},
	{models.CategoryScience, []string{
		"science", "research", "space", "nasa", "climate", "physics",
		"discovery", "telescope",
	}},
	{models.CategoryHealth, []string{
		"health", "vaccine", "covid", "hospital", "disease", "medical",
		"virus", "patient",
	}},
	{models.CategorySports, []string{
		"sports", "football", "soccer", "baseball", "olympic", "league",
		"tournament", "championship",
	}},
	{models.CategoryEntertainment, []string{
		"movie", "film", "music", "celebrity", "drama", "concert",
		"entertainment", "box office",
	}},
}

// Categorize assigns a category label to an article. Pure and
// deterministic: a lowercased source hint is tried against the hint
// rules first, then the lowercased title and description are scanned
// against the keyword sets, and anything left over is world news.
func Categorize(title, description, hint string) models.Category {
	if hint != "" {
		hint = strings.ToLower(hint)
		for _, rule := range hintRules {
			for _, needle := range rule.needles {
				if strings.Contains(hint, needle) {
					return rule.category
				}
			}
		}
	}

	text := strings.ToLower(title + " " + description)
	for _, set := range keywordSets {
		for _, keyword := range set.keywords {
			if strings.Contains(text, keyword) {
				return set.category
			}
		}
	}

	return models.CategoryWorld
}
