package interactions

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/gamehub/portal/internal/domain/entities"
)

type mapStorage struct {
	data     map[string][]byte
	saves    int
	failSave bool
	failLoad bool
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: map[string][]byte{}}
}

func (m *mapStorage) Load(key string) ([]byte, error) {
	if m.failLoad {
		return nil, errors.New("storage disabled")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, entities.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapStorage) Save(key string, data []byte) error {
	m.saves++
	if m.failSave {
		return errors.New("quota exceeded")
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *mapStorage) persisted(t *testing.T) entities.Interactions {
	t.Helper()
	var rec entities.Interactions
	if err := json.Unmarshal(m.data[StorageKey], &rec); err != nil {
		t.Fatalf("persisted record is not valid JSON: %v", err)
	}
	return rec
}

func TestAddFavoriteTwiceKeepsSingleEntry(t *testing.T) {
	st := newMapStorage()
	s := New(st, DefaultLimits(), nil)

	s.AddFavorite("geometry-dash")
	s.AddFavorite("geometry-dash")

	if got := s.Favorites(); len(got) != 1 {
		t.Fatalf("expected 1 favorite, got %v", got)
	}
	if got := st.persisted(t).Favorites; len(got) != 1 {
		t.Fatalf("expected 1 persisted favorite, got %v", got)
	}
}

func TestAddExistingMovesToFront(t *testing.T) {
	s := New(newMapStorage(), DefaultLimits(), nil)

	s.AddRecentlyPlayed("a")
	s.AddRecentlyPlayed("b")
	s.AddRecentlyPlayed("c")
	s.AddRecentlyPlayed("a")

	want := []string{"a", "c", "b"}
	if got := s.RecentlyPlayed(); !reflect.DeepEqual(got, want) {
		t.Errorf("RecentlyPlayed() = %v, want %v", got, want)
	}
}

func TestRecentlyPlayedIsCapped(t *testing.T) {
	s := New(newMapStorage(), Limits{RecentlyPlayed: 3}, nil)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.AddRecentlyPlayed(id)
	}

	want := []string{"e", "d", "c"}
	if got := s.RecentlyPlayed(); !reflect.DeepEqual(got, want) {
		t.Errorf("RecentlyPlayed() = %v, want %v", got, want)
	}
}

func TestToggleFavoriteTwiceRestoresState(t *testing.T) {
	s := New(newMapStorage(), DefaultLimits(), nil)
	s.AddFavorite("x")
	before := s.Favorites()

	if on := s.ToggleFavorite("y"); !on {
		t.Error("first toggle should add")
	}
	if on := s.ToggleFavorite("y"); on {
		t.Error("second toggle should remove")
	}

	if got := s.Favorites(); !reflect.DeepEqual(got, before) {
		t.Errorf("Favorites() = %v, want %v", got, before)
	}
}

func TestClearFavoritesPersistsEmptyList(t *testing.T) {
	st := newMapStorage()
	s := New(st, DefaultLimits(), nil)
	s.AddFavorite("a")
	s.AddFavorite("b")

	s.ClearFavorites()

	if got := s.Favorites(); len(got) != 0 {
		t.Errorf("Favorites() = %v, want empty", got)
	}
	rec := st.persisted(t)
	if rec.Favorites == nil || len(rec.Favorites) != 0 {
		t.Errorf("persisted favorites = %#v, want empty list", rec.Favorites)
	}
}

func TestHydrateFromStorage(t *testing.T) {
	st := newMapStorage()
	st.data[StorageKey] = []byte(`{"favorites":["a","b","a",""],"recentlyPlayed":["c"]}`)

	s := New(st, DefaultLimits(), nil)

	if got, want := s.Favorites(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Favorites() = %v, want %v", got, want)
	}
	if !s.IsRecentlyPlayed("c") {
		t.Error("expected c to be recently played")
	}
	if got := s.RecentSearches(); len(got) != 0 {
		t.Errorf("RecentSearches() = %v, want empty", got)
	}
}

func TestCorruptRecordFallsBackToEmpty(t *testing.T) {
	st := newMapStorage()
	st.data[StorageKey] = []byte(`{"favorites":[`)

	s := New(st, DefaultLimits(), nil)

	if got := s.Favorites(); len(got) != 0 {
		t.Errorf("Favorites() = %v, want empty", got)
	}
}

func TestUnreadableStorageFallsBackToEmpty(t *testing.T) {
	st := newMapStorage()
	st.failLoad = true

	s := New(st, DefaultLimits(), nil)
	s.AddFavorite("a")

	if !s.IsFavorite("a") {
		t.Error("store should still work in memory")
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	st := newMapStorage()
	st.failSave = true
	s := New(st, DefaultLimits(), nil)

	s.AddFavorite("a")
	s.AddRecentlyPlayed("b")

	if !s.IsFavorite("a") {
		t.Error("favorite should be kept in memory after a failed save")
	}
	if !s.IsRecentlyPlayed("b") {
		t.Error("recently played should be kept in memory after a failed save")
	}
	if st.saves != 2 {
		t.Errorf("expected 2 save attempts, got %d", st.saves)
	}
}

func TestRecentSearchesCaseInsensitiveDedup(t *testing.T) {
	s := New(newMapStorage(), DefaultLimits(), nil)

	s.AddRecentSearch("Geometry  Dash")
	s.AddRecentSearch("puzzle")
	s.AddRecentSearch("geometry dash")
	s.AddRecentSearch("   ")

	want := []string{"geometry dash", "puzzle"}
	if got := s.RecentSearches(); !reflect.DeepEqual(got, want) {
		t.Errorf("RecentSearches() = %v, want %v", got, want)
	}
}

func TestNewPanicsWithoutStorage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil storage")
		}
	}()
	New(nil, DefaultLimits(), nil)
}
