package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/domain/interactions"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/infrastructure/metrics"
	"github.com/gamehub/portal/internal/ports"
)

// InteractionService handles favorites, recently played games and recent searches.
// Each call hydrates the visitor's record from storage, so the service itself is stateless.
type InteractionService struct {
	kv      ports.KeyValueStore
	catalog ports.CatalogRepository
	limits  interactions.Limits
	timeout time.Duration
	locks   *visitorLocks
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewInteractionService creates a new interaction service
func NewInteractionService(kv ports.KeyValueStore, catalog ports.CatalogRepository, limits interactions.Limits, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) (*InteractionService, error) {
	if kv == nil || catalog == nil {
		return nil, errors.New("interaction service requires a key-value store and a catalog")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &InteractionService{
		kv:      kv,
		catalog: catalog,
		limits:  limits,
		timeout: timeout,
		locks:   newVisitorLocks(),
		metrics: m,
		logger:  log,
	}, nil
}

func (s *InteractionService) open(ctx context.Context, visitorID string) (*interactions.Store, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, entities.ErrInvalidVisitor
	}
	storage := newVisitorStorage(ctx, s.kv, visitorID, s.timeout)
	return interactions.New(storage, s.limits, s.logger.WithVisitorID(visitorID)), nil
}

func (s *InteractionService) record(visitorID, action string, meta map[string]interface{}) {
	s.metrics.ObserveInteraction(action)
	s.logger.LogVisitorAction(visitorID, action, meta)
}

// Get returns the visitor's interaction record
func (s *InteractionService) Get(ctx context.Context, visitorID string) (entities.Interactions, error) {
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}
	return store.Snapshot(), nil
}

// AddFavorite marks a catalog game as favorite
func (s *InteractionService) AddFavorite(ctx context.Context, visitorID, gameID string) (entities.Interactions, error) {
	game, err := s.catalog.GetGame(ctx, gameID)
	if err != nil {
		return entities.Interactions{}, err
	}
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.AddFavorite(game.ID)
	s.record(visitorID, "favorite_add", map[string]interface{}{"game_id": game.ID})
	return store.Snapshot(), nil
}

// RemoveFavorite unmarks a game. Unknown ids are accepted so stale entries can be removed.
func (s *InteractionService) RemoveFavorite(ctx context.Context, visitorID, gameID string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.RemoveFavorite(gameID)
	s.record(visitorID, "favorite_remove", map[string]interface{}{"game_id": gameID})
	return store.Snapshot(), nil
}

// ToggleFavorite flips a game's favorite state and reports the new state
func (s *InteractionService) ToggleFavorite(ctx context.Context, visitorID, gameID string) (bool, entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return false, entities.Interactions{}, err
	}
	if !store.IsFavorite(gameID) {
		if _, err := s.catalog.GetGame(ctx, gameID); err != nil {
			return false, entities.Interactions{}, err
		}
	}

	favorite := store.ToggleFavorite(gameID)
	s.record(visitorID, "favorite_toggle", map[string]interface{}{"game_id": gameID, "favorite": favorite})
	return favorite, store.Snapshot(), nil
}

// ClearFavorites empties the favorites list
func (s *InteractionService) ClearFavorites(ctx context.Context, visitorID string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.ClearFavorites()
	s.record(visitorID, "favorites_clear", nil)
	return store.Snapshot(), nil
}

// RecordPlay moves a catalog game to the front of the recently played list
func (s *InteractionService) RecordPlay(ctx context.Context, visitorID, gameID string) (entities.Interactions, error) {
	game, err := s.catalog.GetGame(ctx, gameID)
	if err != nil {
		return entities.Interactions{}, err
	}
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.AddRecentlyPlayed(game.ID)
	s.record(visitorID, "play", map[string]interface{}{"game_id": game.ID})
	return store.Snapshot(), nil
}

// RemoveRecentlyPlayed drops one game from the recently played list. Unknown ids are accepted.
func (s *InteractionService) RemoveRecentlyPlayed(ctx context.Context, visitorID, gameID string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.RemoveRecentlyPlayed(gameID)
	s.record(visitorID, "recent_remove", map[string]interface{}{"game_id": gameID})
	return store.Snapshot(), nil
}

// ClearRecentlyPlayed empties the recently played list
func (s *InteractionService) ClearRecentlyPlayed(ctx context.Context, visitorID string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.ClearRecentlyPlayed()
	s.record(visitorID, "recent_clear", nil)
	return store.Snapshot(), nil
}

// RecordSearch remembers a submitted search term
func (s *InteractionService) RecordSearch(ctx context.Context, visitorID, query string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.AddRecentSearch(query)
	s.metrics.ObserveInteraction("search")
	return store.Snapshot(), nil
}

// ClearRecentSearches empties the recent searches list
func (s *InteractionService) ClearRecentSearches(ctx context.Context, visitorID string) (entities.Interactions, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return entities.Interactions{}, err
	}

	store.ClearRecentSearches()
	s.record(visitorID, "searches_clear", nil)
	return store.Snapshot(), nil
}

// FavoriteGames resolves the favorites list against the catalog, skipping removed games
func (s *InteractionService) FavoriteGames(ctx context.Context, visitorID string) ([]*entities.Game, error) {
	record, err := s.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, record.Favorites), nil
}

// RecentGames resolves the recently played list against the catalog, skipping removed games
func (s *InteractionService) RecentGames(ctx context.Context, visitorID string) ([]*entities.Game, error) {
	record, err := s.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, record.RecentlyPlayed), nil
}

func (s *InteractionService) resolve(ctx context.Context, ids []string) []*entities.Game {
	games := make([]*entities.Game, 0, len(ids))
	for _, id := range ids {
		if g, err := s.catalog.GetGame(ctx, id); err == nil {
			games = append(games, g)
		}
	}
	return games
}
