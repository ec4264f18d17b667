package search

import (
	"reflect"
	"testing"
)

func TestSuggestOrderAndDedup(t *testing.T) {
	src := NewSuggestionSource(fixtureGames(), []string{"Skill games"}, []string{"skill games", "racing"})

	got := Suggest(src, "SKILL", 10)
	want := []string{"Skill games", "Skill"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(SKILL) = %v, want %v", got, want)
	}
}

func TestSuggestIncludesGameNames(t *testing.T) {
	src := NewSuggestionSource(fixtureGames(), nil, nil)

	got := Suggest(src, "dash", 10)
	if want := []string{"Geometry Dash Spam Test"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(dash) = %v, want %v", got, want)
	}
}

func TestSuggestIsBounded(t *testing.T) {
	src := SuggestionSource{Tags: []string{"a1", "a2", "a3", "a4", "a5"}}
	if got := Suggest(src, "a", 3); len(got) != 3 {
		t.Errorf("expected 3 suggestions, got %v", got)
	}
	if got := Suggest(src, "a", 0); len(got) != 5 {
		t.Errorf("default limit should allow all 5, got %v", got)
	}
}

func TestSuggestBlankQuery(t *testing.T) {
	src := NewSuggestionSource(fixtureGames(), []string{"x"}, []string{"y"})
	if got := Suggest(src, "   ", 5); len(got) != 0 {
		t.Errorf("Suggest(blank) = %v, want empty", got)
	}
}

func TestSuggestionSourceTagsSorted(t *testing.T) {
	src := NewSuggestionSource(fixtureGames(), nil, nil)
	want := []string{"bike", "classic", "food", "numbers", "physics", "rhythm", "Skill"}
	if !reflect.DeepEqual(src.Tags, want) {
		t.Errorf("Tags = %v, want %v", src.Tags, want)
	}
}

func TestRelated(t *testing.T) {
	games := fixtureGames()
	gd := games[0]

	got := Related(gd, games, 5)
	// moto-x3m shares "skill"; eclair shares the arcade category only.
	if want := []string{"moto-x3m", "eclair"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Related = %v, want %v", ids(got), want)
	}

	if got := Related(gd, games, 1); len(got) != 1 {
		t.Errorf("limit not applied: %v", ids(got))
	}
	if got := Related(nil, games, 3); len(got) != 0 {
		t.Errorf("Related(nil) = %v", ids(got))
	}
}
