package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gamehub/portal/internal/domain/entities"
)

// ParseFilter builds a Filter from URL query parameters. Values that do not
// parse are treated as absent.
//
//	q | search            free text
//	category              category id
//	tags | tag            comma separated or repeated
//	min_popularity        0..100
//	max_popularity        0..100
//	featured              true|false
//	sort | sortBy         popularity|name|dateAdded
//	order | sortOrder     asc|desc
func ParseFilter(q url.Values) entities.Filter {
	f := entities.Filter{
		Search:     first(q, "q", "search"),
		CategoryID: first(q, "category"),
	}

	for _, key := range []string{"tags", "tag"} {
		for _, raw := range q[key] {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					f.Tags = append(f.Tags, t)
				}
			}
		}
	}

	f.MinPopularity = parseFloat(first(q, "min_popularity", "minPopularity"))
	f.MaxPopularity = parseFloat(first(q, "max_popularity", "maxPopularity"))

	if raw := first(q, "featured"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			f.Featured = &b
		}
	}

	if by, ok := entities.ParseSortBy(first(q, "sort", "sortBy")); ok {
		f.SortBy = by
	}
	if order, ok := entities.ParseSortOrder(first(q, "order", "sortOrder")); ok {
		f.SortOrder = order
	}

	return f
}

func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
