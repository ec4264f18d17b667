package search

import (
	"slices"
	"strings"

	"github.com/gamehub/portal/internal/domain/entities"
)

// DefaultSuggestionLimit bounds Suggest when the caller passes a non-positive limit.
const DefaultSuggestionLimit = 8

// SuggestionSource is the vocabulary suggestions are drawn from.
// Earlier fields win when the same term appears in several places.
type SuggestionSource struct {
	RecentSearches  []string
	PopularSearches []string
	Tags            []string
	GameNames       []string
}

// NewSuggestionSource builds a source from the catalog plus search history.
// Tags are sorted alphabetically; game names keep catalog order.
func NewSuggestionSource(games []*entities.Game, recent, popular []string) SuggestionSource {
	seen := make(map[string]struct{})
	var tags, names []string
	for _, g := range games {
		if g == nil {
			continue
		}
		names = append(names, g.Name)
		for _, t := range g.Tags {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, t)
		}
	}
	slices.SortFunc(tags, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	return SuggestionSource{
		RecentSearches:  recent,
		PopularSearches: popular,
		Tags:            tags,
		GameNames:       names,
	}
}

// Suggest returns up to limit terms containing query, case-insensitively.
// A blank query yields no suggestions.
func Suggest(src SuggestionSource, query string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	out := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, group := range [][]string{src.RecentSearches, src.PopularSearches, src.Tags, src.GameNames} {
		for _, term := range group {
			term = strings.TrimSpace(term)
			key := strings.ToLower(term)
			if term == "" || !strings.Contains(key, needle) {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, term)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
