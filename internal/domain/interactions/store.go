// Package interactions keeps a visitor's favorites, recently played games and
// recent searches. Lists are most-recent-first, deduplicated and capped.
// Every mutation is written through to Storage; a failed write is logged and
// the in-memory state is kept as is.
package interactions

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/logger"
)

// StorageKey is the namespaced key the record is persisted under.
const StorageKey = "gamehub:user-interactions"

// Storage is a synchronous key-value backend, the equivalent of browser local storage.
// Load returns entities.ErrKeyNotFound when the key is absent.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Limits caps each list. Non-positive values fall back to DefaultLimits.
type Limits struct {
	Favorites      int
	RecentlyPlayed int
	RecentSearches int
}

// DefaultLimits returns the caps used when none are configured.
func DefaultLimits() Limits {
	return Limits{Favorites: 100, RecentlyPlayed: 20, RecentSearches: 10}
}

func (l Limits) normalize() Limits {
	d := DefaultLimits()
	if l.Favorites <= 0 {
		l.Favorites = d.Favorites
	}
	if l.RecentlyPlayed <= 0 {
		l.RecentlyPlayed = d.RecentlyPlayed
	}
	if l.RecentSearches <= 0 {
		l.RecentSearches = d.RecentSearches
	}
	return l
}

// Store is the in-memory view of one visitor's interaction record.
type Store struct {
	mu      sync.Mutex
	storage Storage
	limits  Limits
	logger  *logger.Logger
	state   entities.Interactions
}

// New hydrates a Store from storage. An absent, unreadable or corrupt record
// yields empty lists. storage must not be nil.
func New(storage Storage, limits Limits, log *logger.Logger) *Store {
	if storage == nil {
		panic("interactions: New called with nil storage")
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		storage: storage,
		limits:  limits.normalize(),
		logger:  log.WithComponent("interactions"),
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	data, err := s.storage.Load(StorageKey)
	if err != nil {
		if !errors.Is(err, entities.ErrKeyNotFound) {
			s.logger.LogStorageFailure("load", StorageKey, err)
		}
		return
	}

	var persisted entities.Interactions
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.logger.LogStorageFailure("decode", StorageKey, err)
		return
	}

	s.state = entities.Interactions{
		Favorites:      sanitize(persisted.Favorites, s.limits.Favorites, exact),
		RecentlyPlayed: sanitize(persisted.RecentlyPlayed, s.limits.RecentlyPlayed, exact),
		RecentSearches: sanitize(persisted.RecentSearches, s.limits.RecentSearches, strings.EqualFold),
	}
}

// persist must be called with mu held.
func (s *Store) persist() {
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.LogStorageFailure("encode", StorageKey, err)
		return
	}
	if err := s.storage.Save(StorageKey, data); err != nil {
		s.logger.LogStorageFailure("save", StorageKey, err)
	}
}

func (s *Store) snapshotLocked() entities.Interactions {
	return entities.Interactions{
		Favorites:      clone(s.state.Favorites),
		RecentlyPlayed: clone(s.state.RecentlyPlayed),
		RecentSearches: clone(s.state.RecentSearches),
	}
}

// Snapshot returns a copy of the whole record.
func (s *Store) Snapshot() entities.Interactions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Favorites returns the favorite game ids, most recent first.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Favorites)
}

// RecentlyPlayed returns the recently played game ids, most recent first.
func (s *Store) RecentlyPlayed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.RecentlyPlayed)
}

// RecentSearches returns the visitor's recent search terms, most recent first.
func (s *Store) RecentSearches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.RecentSearches)
}

// IsFavorite reports whether id is in the favorites list.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.Favorites, id, exact) >= 0
}

// IsRecentlyPlayed reports whether id is in the recently played list.
func (s *Store) IsRecentlyPlayed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.RecentlyPlayed, id, exact) >= 0
}

// AddFavorite moves id to the front of the favorites list.
func (s *Store) AddFavorite(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = pushFront(s.state.Favorites, id, s.limits.Favorites, exact)
	s.persist()
}

// RemoveFavorite drops id from the favorites list.
func (s *Store) RemoveFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = remove(s.state.Favorites, id, exact)
	s.persist()
}

// ToggleFavorite adds id if absent and removes it if present.
// It reports whether id is a favorite afterwards.
func (s *Store) ToggleFavorite(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.state.Favorites, id, exact) >= 0 {
		s.state.Favorites = remove(s.state.Favorites, id, exact)
		s.persist()
		return false
	}
	s.state.Favorites = pushFront(s.state.Favorites, id, s.limits.Favorites, exact)
	s.persist()
	return true
}

// ClearFavorites empties the favorites list and persists the empty state.
func (s *Store) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = nil
	s.persist()
}

// AddRecentlyPlayed moves id to the front of the recently played list.
func (s *Store) AddRecentlyPlayed(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecentlyPlayed = pushFront(s.state.RecentlyPlayed, id, s.limits.RecentlyPlayed, exact)
	s.persist()
}

// RemoveRecentlyPlayed drops id from the recently played list.
func (s *Store) RemoveRecentlyPlayed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecentlyPlayed = remove(s.state.RecentlyPlayed, id, exact)
	s.persist()
}

// ClearRecentlyPlayed empties the recently played list.
func (s *Store) ClearRecentlyPlayed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecentlyPlayed = nil
	s.persist()
}

// AddRecentSearch records a search term. Terms are compared case-insensitively.
func (s *Store) AddRecentSearch(term string) {
	term = strings.Join(strings.Fields(term), " ")
	if term == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecentSearches = pushFront(s.state.RecentSearches, term, s.limits.RecentSearches, strings.EqualFold)
	s.persist()
}

// ClearRecentSearches empties the recent searches list.
func (s *Store) ClearRecentSearches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecentSearches = nil
	s.persist()
}

func exact(a, b string) bool { return a == b }

func indexOf(list []string, v string, eq func(a, b string) bool) int {
	for i, item := range list {
		if eq(item, v) {
			return i
		}
	}
	return -1
}

func remove(list []string, v string, eq func(a, b string) bool) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if !eq(item, v) {
			out = append(out, item)
		}
	}
	return out
}

func pushFront(list []string, v string, max int, eq func(a, b string) bool) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, v)
	out = append(out, remove(list, v, eq)...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// sanitize drops blanks and duplicates from a persisted list and enforces the cap.
func sanitize(list []string, max int, eq func(a, b string) bool) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == "" || indexOf(out, item, eq) >= 0 {
			continue
		}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
