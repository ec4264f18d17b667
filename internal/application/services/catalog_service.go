package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamehub/portal/internal/application/search"
	"github.com/gamehub/portal/internal/application/seo"
	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/infrastructure/metrics"
	"github.com/gamehub/portal/internal/ports"
)

// CatalogOptions tunes listing and suggestion behaviour.
type CatalogOptions struct {
	SuggestionLimit int
	RelatedLimit    int
	PopularSearches []string
}

// CatalogService handles game browsing, search and catalog reloads
type CatalogService struct {
	store   ports.CatalogStore
	source  ports.CatalogSource
	seo     *seo.Generator
	opts    CatalogOptions
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.CatalogStore, source ports.CatalogSource, gen *seo.Generator, opts CatalogOptions, m *metrics.Metrics, log *logger.Logger) (*CatalogService, error) {
	if store == nil || source == nil || gen == nil {
		return nil, errors.New("catalog service requires a store, a source and an SEO generator")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = search.DefaultSuggestionLimit
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = 6
	}
	return &CatalogService{
		store:   store,
		source:  source,
		seo:     gen,
		opts:    opts,
		metrics: m,
		logger:  log.WithComponent("catalog"),
	}, nil
}

// ListGames returns the games matching filter in the requested order
func (s *CatalogService) ListGames(ctx context.Context, filter entities.Filter) ([]*entities.Game, error) {
	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	s.metrics.ObserveSearch()
	return search.Apply(games, filter), nil
}

// FeaturedGames returns featured games, most popular first
func (s *CatalogService) FeaturedGames(ctx context.Context) ([]*entities.Game, error) {
	featured := true
	return s.ListGames(ctx, entities.Filter{Featured: &featured})
}

// findGame resolves a slug or an id.
func (s *CatalogService) findGame(ctx context.Context, ident string) (*entities.Game, error) {
	ident = strings.TrimSpace(ident)
	if g, err := s.store.GetGameBySlug(ctx, strings.ToLower(ident)); err == nil {
		return g, nil
	}
	return s.store.GetGame(ctx, ident)
}

// GetGame retrieves a game by slug or id with its category, rating and related games
func (s *CatalogService) GetGame(ctx context.Context, ident string) (*ports.GameDetail, error) {
	game, err := s.findGame(ctx, ident)
	if err != nil {
		return nil, err
	}

	related, err := s.relatedTo(ctx, game)
	if err != nil {
		return nil, err
	}

	detail := &ports.GameDetail{
		Game:    game,
		Rating:  s.seo.Rating(game.Popularity),
		Related: related,
	}
	if category, err := s.store.GetCategory(ctx, game.CategoryID); err == nil {
		detail.Category = category
	}
	return detail, nil
}

// RelatedGames returns games similar to the given one
func (s *CatalogService) RelatedGames(ctx context.Context, ident string) ([]*entities.Game, error) {
	game, err := s.findGame(ctx, ident)
	if err != nil {
		return nil, err
	}
	return s.relatedTo(ctx, game)
}

func (s *CatalogService) relatedTo(ctx context.Context, game *entities.Game) ([]*entities.Game, error) {
	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return search.Related(game, games, s.opts.RelatedLimit), nil
}

// ListCategories returns every category with its game count
func (s *CatalogService) ListCategories(ctx context.Context) ([]*ports.CategorySummary, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	counts := make(map[string]int, len(categories))
	for _, g := range games {
		counts[g.CategoryID]++
	}

	out := make([]*ports.CategorySummary, len(categories))
	for i, c := range categories {
		out[i] = &ports.CategorySummary{Category: c, GameCount: counts[c.ID]}
	}
	return out, nil
}

// GetCategory retrieves a category by slug or id with its games
func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*ports.CategoryDetail, error) {
	category, err := s.store.GetCategoryBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if category, err = s.store.GetCategory(ctx, slug); err != nil {
			return nil, err
		}
	}

	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return &ports.CategoryDetail{
		Category: category,
		Games:    search.Apply(games, entities.Filter{CategoryID: category.ID}),
	}, nil
}

// Suggest returns search suggestions for a partial query
func (s *CatalogService) Suggest(ctx context.Context, query string, recentSearches []string) ([]string, error) {
	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	s.metrics.ObserveSuggestion()

	src := search.NewSuggestionSource(games, recentSearches, s.opts.PopularSearches)
	return search.Suggest(src, query, s.opts.SuggestionLimit), nil
}

// Reload re-reads the catalog source and swaps it in. On failure the current catalog stays.
func (s *CatalogService) Reload(ctx context.Context) (*ports.ReloadResult, error) {
	catalog, err := s.source.Load(ctx)
	if err == nil {
		err = s.store.Replace(catalog)
	}
	if err != nil {
		s.metrics.ObserveReload(err, 0)
		s.logger.WithError(err).Error("Catalog reload failed")
		return nil, fmt.Errorf("failed to reload catalog: %w", err)
	}

	games, _ := s.store.Games(ctx)
	categories, _ := s.store.Categories(ctx)
	s.metrics.ObserveReload(nil, len(games))
	s.logger.Infow("Catalog reloaded", "games", len(games), "categories", len(categories))

	return &ports.ReloadResult{Games: len(games), Categories: len(categories)}, nil
}
