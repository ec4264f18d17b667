// Package search filters, sorts and suggests over an in-memory game collection.
// Nothing here returns an error: malformed criteria are dropped, not reported.
package search

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gamehub/portal/internal/domain/entities"
)

// Apply returns the games matching every predicate in f, sorted by f.SortBy.
// The input slice is not modified. An empty filter returns every game, most popular first.
func Apply(games []*entities.Game, f entities.Filter) []*entities.Game {
	f = Normalize(f)

	out := make([]*entities.Game, 0, len(games))
	for _, g := range games {
		if g != nil && matches(g, f) {
			out = append(out, g)
		}
	}

	Sort(out, f.SortBy, f.SortOrder)
	return out
}

// Normalize cleans a filter: trims text, drops blank tags and unusable
// popularity bounds, and fills in the default sort.
func Normalize(f entities.Filter) entities.Filter {
	f.Search = strings.TrimSpace(f.Search)
	f.CategoryID = strings.TrimSpace(f.CategoryID)

	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags

	f.MinPopularity = validBound(f.MinPopularity)
	f.MaxPopularity = validBound(f.MaxPopularity)
	if f.MinPopularity != nil && f.MaxPopularity != nil && *f.MinPopularity > *f.MaxPopularity {
		f.MinPopularity, f.MaxPopularity = nil, nil
	}

	if !f.SortBy.Valid() {
		f.SortBy = entities.SortByPopularity
	}
	if f.SortOrder != entities.SortOrderAsc && f.SortOrder != entities.SortOrderDesc {
		f.SortOrder = DefaultOrder(f.SortBy)
	}
	return f
}

func validBound(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	if *v < entities.PopularityMin || *v > entities.PopularityMax {
		return nil
	}
	return v
}

func matches(g *entities.Game, f entities.Filter) bool {
	if f.Search != "" && !matchesText(g, strings.ToLower(f.Search)) {
		return false
	}
	if f.CategoryID != "" && g.CategoryID != f.CategoryID {
		return false
	}
	if f.Featured != nil && g.Featured != *f.Featured {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, g.HasTag) {
		return false
	}
	if f.MinPopularity != nil && g.Popularity < *f.MinPopularity {
		return false
	}
	if f.MaxPopularity != nil && g.Popularity > *f.MaxPopularity {
		return false
	}
	return true
}

// matchesText is a case-insensitive substring match over name, description and tags.
func matchesText(g *entities.Game, needle string) bool {
	if strings.Contains(strings.ToLower(g.Name), needle) ||
		strings.Contains(strings.ToLower(g.Description), needle) {
		return true
	}
	for _, t := range g.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// DefaultOrder is the order used when a filter does not name one:
// most popular and newest first, names A to Z.
func DefaultOrder(by entities.SortBy) entities.SortOrder {
	if by == entities.SortByName {
		return entities.SortOrderAsc
	}
	return entities.SortOrderDesc
}

// Sort orders games in place. Equal keys keep their original relative order.
func Sort(games []*entities.Game, by entities.SortBy, order entities.SortOrder) {
	cmp := comparator(by)
	if order == entities.SortOrderDesc {
		asc := cmp
		cmp = func(a, b *entities.Game) int { return -asc(a, b) }
	}
	slices.SortStableFunc(games, cmp)
}

// comparator returns an ascending comparison for the sort key.
func comparator(by entities.SortBy) func(a, b *entities.Game) int {
	switch by {
	case entities.SortByName:
		// Collators keep internal buffers; one per sort call.
		col := collate.New(language.English, collate.Loose)
		return func(a, b *entities.Game) int {
			return col.CompareString(a.Name, b.Name)
		}
	case entities.SortByDateAdded:
		return func(a, b *entities.Game) int {
			return a.DateAdded.Compare(b.DateAdded)
		}
	default:
		return func(a, b *entities.Game) int {
			switch {
			case a.Popularity < b.Popularity:
				return -1
			case a.Popularity > b.Popularity:
				return 1
			}
			return 0
		}
	}
}
