package ports

import (
	"context"
	"net/url"
	"time"

	"github.com/gamehub/portal/internal/application/routing"
	"github.com/gamehub/portal/internal/application/seo"
	"github.com/gamehub/portal/internal/domain/entities"
)

// CatalogService interface for browsing and searching the game catalog
type CatalogService interface {
	ListGames(ctx context.Context, filter entities.Filter) ([]*entities.Game, error)
	FeaturedGames(ctx context.Context) ([]*entities.Game, error)
	GetGame(ctx context.Context, ident string) (*GameDetail, error)
	RelatedGames(ctx context.Context, ident string) ([]*entities.Game, error)
	ListCategories(ctx context.Context) ([]*CategorySummary, error)
	GetCategory(ctx context.Context, slug string) (*CategoryDetail, error)
	Suggest(ctx context.Context, query string, recentSearches []string) ([]string, error)
	Reload(ctx context.Context) (*ReloadResult, error)
}

// InteractionService interface for a visitor's favorites and history
type InteractionService interface {
	Get(ctx context.Context, visitorID string) (entities.Interactions, error)
	AddFavorite(ctx context.Context, visitorID, gameID string) (entities.Interactions, error)
	RemoveFavorite(ctx context.Context, visitorID, gameID string) (entities.Interactions, error)
	ToggleFavorite(ctx context.Context, visitorID, gameID string) (bool, entities.Interactions, error)
	ClearFavorites(ctx context.Context, visitorID string) (entities.Interactions, error)
	RecordPlay(ctx context.Context, visitorID, gameID string) (entities.Interactions, error)
	RemoveRecentlyPlayed(ctx context.Context, visitorID, gameID string) (entities.Interactions, error)
	ClearRecentlyPlayed(ctx context.Context, visitorID string) (entities.Interactions, error)
	RecordSearch(ctx context.Context, visitorID, query string) (entities.Interactions, error)
	ClearRecentSearches(ctx context.Context, visitorID string) (entities.Interactions, error)
	FavoriteGames(ctx context.Context, visitorID string) ([]*entities.Game, error)
	RecentGames(ctx context.Context, visitorID string) ([]*entities.Game, error)
}

// PreferencesService interface for a visitor's display preferences
type PreferencesService interface {
	Get(ctx context.Context, visitorID string) (entities.Preferences, error)
	Update(ctx context.Context, visitorID string, patch entities.PreferencesPatch) (entities.Preferences, error)
	Reset(ctx context.Context, visitorID string) (entities.Preferences, error)
}

// VisitorService interface for anonymous visitor identity
type VisitorService interface {
	Issue() (visitorID, token string, err error)
	Parse(token string) (string, error)
	TTL() time.Duration
}

// SEOService interface for page metadata, sitemap and robots.txt
type SEOService interface {
	Resolve(ctx context.Context, path string, query url.Values) routing.Page
	Head(page routing.Page) seo.Head
	Page(ctx context.Context, path string, query url.Values) (routing.Page, seo.Head)
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() string
}

// Request/Response Types

// GameDetail is a game with its category, rating and related games
type GameDetail struct {
	Game     *entities.Game     `json:"game"`
	Category *entities.Category `json:"category,omitempty"`
	Rating   float64            `json:"rating"`
	Related  []*entities.Game   `json:"related"`
}

// CategorySummary is a category with the number of games in it
type CategorySummary struct {
	*entities.Category
	GameCount int `json:"gameCount"`
}

// CategoryDetail is a category with its games
type CategoryDetail struct {
	Category *entities.Category `json:"category"`
	Games    []*entities.Game   `json:"games"`
}

// ReloadResult reports the catalog size after a reload
type ReloadResult struct {
	Games      int `json:"games"`
	Categories int `json:"categories"`
}

type AddGameRequest struct {
	GameID string `json:"gameId" validate:"required,max=200"`
}

type RecordSearchRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

type ToggleFavoriteResponse struct {
	Favorite     bool                  `json:"favorite"`
	Interactions entities.Interactions `json:"interactions"`
}

type FavoritesResponse struct {
	IDs   []string         `json:"ids"`
	Games []*entities.Game `json:"games"`
}

type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
