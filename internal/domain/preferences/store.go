package preferences

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/domain/interactions"
	"github.com/gamehub/portal/internal/infrastructure/logger"
)

// StorageKey is the namespaced key preferences are persisted under.
const StorageKey = "gamehub:user-preferences"

// Grid column bounds accepted from storage or updates.
const (
	MinGridColumns = 1
	MaxGridColumns = 6
)

// Defaults returns the hardcoded display preferences.
func Defaults() entities.Preferences {
	return entities.Preferences{
		GridColumns:      3,
		ShowDescriptions: true,
		ShowCategories:   true,
		DefaultSort:      entities.SortByPopularity,
		Theme:            entities.ThemeLight,
	}
}

// Store holds one visitor's preferences merged over Defaults.
type Store struct {
	mu      sync.Mutex
	storage interactions.Storage
	logger  *logger.Logger
	current entities.Preferences
}

// New hydrates a Store. storage must not be nil.
func New(storage interactions.Storage, log *logger.Logger) *Store {
	if storage == nil {
		panic("preferences: New called with nil storage")
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		storage: storage,
		logger:  log.WithComponent("preferences"),
		current: Defaults(),
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

	merged, err := Merge(Defaults(), data)
	if err != nil {
		s.logger.LogStorageFailure("decode", StorageKey, err)
	}
	s.current = merged
}

// Merge overlays a persisted JSON object onto base one key at a time.
// Keys that are missing, mistyped or out of range keep the base value.
// A document that is not a JSON object returns base and the decode error.
func Merge(base entities.Preferences, data []byte) (entities.Preferences, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return base, err
	}

	out := base
	if v, ok := raw["gridColumns"]; ok {
		var n int
		if json.Unmarshal(v, &n) == nil && n >= MinGridColumns && n <= MaxGridColumns {
			out.GridColumns = n
		}
	}
	if v, ok := raw["showDescriptions"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			out.ShowDescriptions = b
		}
	}
	if v, ok := raw["showCategories"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			out.ShowCategories = b
		}
	}
	if v, ok := raw["defaultSort"]; ok {
		var str string
		if json.Unmarshal(v, &str) == nil {
			if sortBy := entities.SortBy(str); sortBy.Valid() {
				out.DefaultSort = sortBy
			}
		}
	}
	if v, ok := raw["theme"]; ok {
		var str string
		if json.Unmarshal(v, &str) == nil {
			if theme := entities.Theme(str); theme.Valid() {
				out.Theme = theme
			}
		}
	}
	return out, nil
}

// Apply overlays a patch onto p, ignoring invalid values.
func Apply(p entities.Preferences, patch entities.PreferencesPatch) entities.Preferences {
	if patch.GridColumns != nil && *patch.GridColumns >= MinGridColumns && *patch.GridColumns <= MaxGridColumns {
		p.GridColumns = *patch.GridColumns
	}
	if patch.ShowDescriptions != nil {
		p.ShowDescriptions = *patch.ShowDescriptions
	}
	if patch.ShowCategories != nil {
		p.ShowCategories = *patch.ShowCategories
	}
	if patch.DefaultSort != nil && patch.DefaultSort.Valid() {
		p.DefaultSort = *patch.DefaultSort
	}
	if patch.Theme != nil && patch.Theme.Valid() {
		p.Theme = *patch.Theme
	}
	return p
}

// Get returns the merged preferences.
func (s *Store) Get() entities.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update shallow-merges patch into the current preferences, persists and returns the result.
func (s *Store) Update(patch entities.PreferencesPatch) entities.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Apply(s.current, patch)
	s.persist()
	return s.current
}

// Reset restores Defaults and persists them.
func (s *Store) Reset() entities.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Defaults()
	s.persist()
	return s.current
}

func (s *Store) persist() {
	data, err := json.Marshal(s.current)
	if err != nil {
		s.logger.LogStorageFailure("encode", StorageKey, err)
		return
	}
	if err := s.storage.Save(StorageKey, data); err != nil {
		s.logger.LogStorageFailure("save", StorageKey, err)
	}
}
