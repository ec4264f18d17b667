package search

import (
	"math"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/gamehub/portal/internal/domain/entities"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

func fixtureGames() []*entities.Game {
	return []*entities.Game{
		{ID: "gd-spam", Name: "Geometry Dash Spam Test", Description: "Tap to the beat", CategoryID: "arcade", Tags: []string{"rhythm", "Skill"}, Popularity: 95, DateAdded: day(3), Featured: true},
		{ID: "2048", Name: "2048", Description: "Slide numbered tiles", CategoryID: "puzzle", Tags: []string{"numbers", "classic"}, Popularity: 80, DateAdded: day(1)},
		{ID: "cut-rope", Name: "cut the rope", Description: "Feed Om Nom candy", CategoryID: "puzzle", Tags: []string{"physics"}, Popularity: 80, DateAdded: day(5)},
		{ID: "moto-x3m", Name: "Moto X3M", Description: "Bike stunts", CategoryID: "racing", Tags: []string{"bike", "skill"}, Popularity: 70, DateAdded: day(4), Featured: true},
		{ID: "eclair", Name: "Éclair Rush", Description: "Bakery dash game", CategoryID: "arcade", Tags: []string{"food"}, Popularity: 40, DateAdded: day(2)},
	}
}

func ids(games []*entities.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestApplySearchMatchesName(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{Search: "dash"})

	// "dash" is in the name of gd-spam and the description of eclair.
	if want := []string{"gd-spam", "eclair"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Apply(dash) = %v, want %v", ids(got), want)
	}
}

func TestApplySearchIsCaseInsensitiveOverTags(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{Search: "PHYSICS"})
	if want := []string{"cut-rope"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Apply(PHYSICS) = %v, want %v", ids(got), want)
	}
}

func TestApplyUnmatchedSearchIsEmpty(t *testing.T) {
	for _, q := range []string{"zzz-no-such-game", "geometry dash spam test 2"} {
		if got := Apply(fixtureGames(), entities.Filter{Search: q}); len(got) != 0 {
			t.Errorf("Apply(%q) = %v, want empty", q, ids(got))
		}
	}
}

func TestApplyCategoryReturnsOnlyThatCategory(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{CategoryID: "puzzle"})
	if len(got) != 2 {
		t.Fatalf("expected 2 puzzle games, got %v", ids(got))
	}
	for _, g := range got {
		if g.CategoryID != "puzzle" {
			t.Errorf("game %s has category %s", g.ID, g.CategoryID)
		}
	}
}

func TestApplyEmptyFilterIsPopularityDescending(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{})
	if len(got) != 5 {
		t.Fatalf("expected all games, got %v", ids(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Popularity < got[i].Popularity {
			t.Errorf("%s (%v) precedes %s (%v)", got[i-1].ID, got[i-1].Popularity, got[i].ID, got[i].Popularity)
		}
	}
	// 2048 and cut-rope tie at 80; collection order is preserved.
	if want := []string{"gd-spam", "2048", "cut-rope", "moto-x3m", "eclair"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Apply({}) = %v, want %v", ids(got), want)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	games := fixtureGames()
	before := ids(games)
	Apply(games, entities.Filter{SortBy: entities.SortByName})
	if !reflect.DeepEqual(ids(games), before) {
		t.Errorf("input reordered: %v", ids(games))
	}
}

func TestApplyFeatured(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{Featured: ptr(true)})
	if want := []string{"gd-spam", "moto-x3m"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("featured = %v, want %v", ids(got), want)
	}
	got = Apply(fixtureGames(), entities.Filter{Featured: ptr(false)})
	if len(got) != 3 {
		t.Errorf("non-featured = %v, want 3 games", ids(got))
	}
}

func TestApplyTagsMatchAny(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{Tags: []string{"skill", "food", " "}})
	if want := []string{"gd-spam", "moto-x3m", "eclair"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("tags = %v, want %v", ids(got), want)
	}
}

func TestApplyPopularityBounds(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{MinPopularity: ptr(70.0), MaxPopularity: ptr(80.0)})
	if want := []string{"2048", "cut-rope", "moto-x3m"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("bounds = %v, want %v", ids(got), want)
	}
}

func TestApplyMalformedBoundsAreIgnored(t *testing.T) {
	cases := []entities.Filter{
		{MinPopularity: ptr(math.NaN())},
		{MaxPopularity: ptr(math.Inf(1))},
		{MinPopularity: ptr(-5.0)},
		{MinPopularity: ptr(90.0), MaxPopularity: ptr(10.0)},
	}
	for _, f := range cases {
		if got := Apply(fixtureGames(), f); len(got) != 5 {
			t.Errorf("filter %+v returned %v, want all games", f, ids(got))
		}
	}
}

func TestSortByNameIsLocaleAware(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{SortBy: entities.SortByName})
	// Loose collation ignores case and accents, so "cut the rope" sorts before "Éclair Rush".
	want := []string{"2048", "cut-rope", "eclair", "gd-spam", "moto-x3m"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("by name = %v, want %v", ids(got), want)
	}

	got = Apply(fixtureGames(), entities.Filter{SortBy: entities.SortByName, SortOrder: entities.SortOrderDesc})
	want = []string{"moto-x3m", "gd-spam", "eclair", "cut-rope", "2048"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("by name desc = %v, want %v", ids(got), want)
	}
}

func TestSortByDateAdded(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{SortBy: entities.SortByDateAdded})
	if want := []string{"cut-rope", "moto-x3m", "gd-spam", "eclair", "2048"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("newest first = %v, want %v", ids(got), want)
	}

	got = Apply(fixtureGames(), entities.Filter{SortBy: entities.SortByDateAdded, SortOrder: entities.SortOrderAsc})
	if want := []string{"2048", "eclair", "gd-spam", "moto-x3m", "cut-rope"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("oldest first = %v, want %v", ids(got), want)
	}
}

func TestSortOrderAscendingPopularityKeepsTieOrder(t *testing.T) {
	got := Apply(fixtureGames(), entities.Filter{SortOrder: entities.SortOrderAsc})
	if want := []string{"eclair", "moto-x3m", "2048", "cut-rope", "gd-spam"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ascending = %v, want %v", ids(got), want)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"q":              {" dash "},
		"category":       {"arcade"},
		"tags":           {"skill,rhythm", ""},
		"tag":            {"food"},
		"min_popularity": {"abc"},
		"max_popularity": {"90"},
		"featured":       {"maybe"},
		"sort":           {"name"},
		"order":          {"sideways"},
	}
	f := ParseFilter(q)

	if f.Search != "dash" || f.CategoryID != "arcade" {
		t.Errorf("text fields = %q / %q", f.Search, f.CategoryID)
	}
	if want := []string{"skill", "rhythm", "food"}; !reflect.DeepEqual(f.Tags, want) {
		t.Errorf("Tags = %v, want %v", f.Tags, want)
	}
	if f.MinPopularity != nil {
		t.Error("malformed min_popularity should be dropped")
	}
	if f.MaxPopularity == nil || *f.MaxPopularity != 90 {
		t.Errorf("MaxPopularity = %v", f.MaxPopularity)
	}
	if f.Featured != nil {
		t.Error("malformed featured should be dropped")
	}
	if f.SortBy != entities.SortByName || f.SortOrder != "" {
		t.Errorf("sort = %q %q", f.SortBy, f.SortOrder)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	f := Normalize(entities.Filter{SortBy: "rating", SortOrder: "up"})
	if f.SortBy != entities.SortByPopularity || f.SortOrder != entities.SortOrderDesc {
		t.Errorf("Normalize = %q %q", f.SortBy, f.SortOrder)
	}
}
