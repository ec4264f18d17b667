package search

import (
	"slices"

	"github.com/gamehub/portal/internal/domain/entities"
)

// Related returns games that share the category or at least one tag with g,
// most shared tags first, then most popular. g itself is excluded.
// This is a browsing heuristic; callers should not depend on exact ranking.
func Related(g *entities.Game, games []*entities.Game, limit int) []*entities.Game {
	if g == nil || limit <= 0 {
		return []*entities.Game{}
	}

	type scored struct {
		game   *entities.Game
		shared int
		same   bool
	}

	candidates := make([]scored, 0)
	for _, other := range games {
		if other == nil || other.ID == g.ID {
			continue
		}
		shared := 0
		for _, t := range other.Tags {
			if g.HasTag(t) {
				shared++
			}
		}
		same := other.CategoryID == g.CategoryID
		if shared == 0 && !same {
			continue
		}
		candidates = append(candidates, scored{game: other, shared: shared, same: same})
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		if a.shared != b.shared {
			return b.shared - a.shared
		}
		if a.same != b.same {
			if a.same {
				return -1
			}
			return 1
		}
		switch {
		case a.game.Popularity > b.game.Popularity:
			return -1
		case a.game.Popularity < b.game.Popularity:
			return 1
		}
		return 0
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]*entities.Game, len(candidates))
	for i, c := range candidates {
		out[i] = c.game
	}
	return out
}
