// Package routing resolves public URL paths into page descriptions.
// Resolution never fails: unknown paths and identifiers become a not-found page.
package routing

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/gamehub/portal/internal/application/search"
	"github.com/gamehub/portal/internal/domain/entities"
)

// Catalog is the read access Resolve needs. Lookups return an error for unknown identifiers.
type Catalog interface {
	Games(ctx context.Context) ([]*entities.Game, error)
	Categories(ctx context.Context) ([]*entities.Category, error)
	GetGame(ctx context.Context, id string) (*entities.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*entities.Game, error)
	GetCategory(ctx context.Context, id string) (*entities.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entities.Category, error)
}

// Kind identifies the page template a route renders.
type Kind string

const (
	KindHome     Kind = "home"
	KindGame     Kind = "game"
	KindCategory Kind = "category"
	KindSearch   Kind = "search"
	KindNotFound Kind = "notFound"
)

// Page is a resolved route.
type Page struct {
	Kind Kind `json:"kind"`
	// Path is the canonical path, including the query for search pages.
	Path     string             `json:"path"`
	Game     *entities.Game     `json:"game,omitempty"`
	Category *entities.Category `json:"category,omitempty"`
	Query    string             `json:"query,omitempty"`
	// Games lists the page content: category members, search hits, or home featured games.
	Games []*entities.Game `json:"games,omitempty"`
	// Categories is filled on home and search pages for navigation.
	Categories []*entities.Category `json:"categories,omitempty"`
}

// GamePath is the canonical path of a game page.
func GamePath(g *entities.Game) string {
	return "/game/" + g.Slug
}

// CategoryPath is the canonical path of a category page.
func CategoryPath(c *entities.Category) string {
	return "/category/" + c.Slug
}

// SearchPath is the canonical path of a search page.
func SearchPath(query, categoryID string) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if categoryID != "" {
		v.Set("category", categoryID)
	}
	if len(v) == 0 {
		return "/search"
	}
	return "/search?" + v.Encode()
}

// NotFound returns the not-found page for a raw path.
func NotFound(rawPath string) Page {
	return Page{Kind: KindNotFound, Path: rawPath}
}

// Resolve maps a request path and query to a Page.
func Resolve(ctx context.Context, catalog Catalog, rawPath string, query url.Values) Page {
	clean := path.Clean("/" + strings.TrimSpace(rawPath))
	segments := strings.Split(strings.Trim(clean, "/"), "/")

	switch {
	case clean == "/":
		return resolveHome(ctx, catalog)
	case len(segments) == 2 && segments[0] == "game":
		return resolveGame(ctx, catalog, segments[1], clean)
	case len(segments) == 2 && segments[0] == "category":
		return resolveCategory(ctx, catalog, segments[1], clean)
	case len(segments) == 1 && segments[0] == "search":
		return resolveSearch(ctx, catalog, query)
	}
	return NotFound(clean)
}

func resolveHome(ctx context.Context, catalog Catalog) Page {
	games, _ := catalog.Games(ctx)
	categories, _ := catalog.Categories(ctx)

	featured := true
	return Page{
		Kind:       KindHome,
		Path:       "/",
		Games:      search.Apply(games, entities.Filter{Featured: &featured}),
		Categories: categories,
	}
}

func resolveGame(ctx context.Context, catalog Catalog, ident, clean string) Page {
	// Slugs are lowercase; ids are matched as given.
	game, err := catalog.GetGameBySlug(ctx, strings.ToLower(ident))
	if err != nil {
		if game, err = catalog.GetGame(ctx, ident); err != nil {
			return NotFound(clean)
		}
	}

	page := Page{Kind: KindGame, Path: GamePath(game), Game: game}
	if category, err := catalog.GetCategory(ctx, game.CategoryID); err == nil {
		page.Category = category
	}
	return page
}

func resolveCategory(ctx context.Context, catalog Catalog, slug, clean string) Page {
	category, err := catalog.GetCategoryBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return NotFound(clean)
	}

	games, _ := catalog.Games(ctx)
	return Page{
		Kind:     KindCategory,
		Path:     CategoryPath(category),
		Category: category,
		Games:    search.Apply(games, entities.Filter{CategoryID: category.ID}),
	}
}

func resolveSearch(ctx context.Context, catalog Catalog, query url.Values) Page {
	filter := search.ParseFilter(query)

	// The category parameter may carry a slug or an id; an unknown one is ignored.
	var category *entities.Category
	if filter.CategoryID != "" {
		c, err := catalog.GetCategoryBySlug(ctx, strings.ToLower(filter.CategoryID))
		if err != nil {
			c, err = catalog.GetCategory(ctx, filter.CategoryID)
		}
		if err == nil {
			category = c
			filter.CategoryID = c.ID
		} else {
			filter.CategoryID = ""
		}
	}

	games, _ := catalog.Games(ctx)
	categories, _ := catalog.Categories(ctx)
	return Page{
		Kind:       KindSearch,
		Path:       SearchPath(filter.Search, filter.CategoryID),
		Category:   category,
		Query:      filter.Search,
		Games:      search.Apply(games, filter),
		Categories: categories,
	}
}
