package routing

import (
	"context"
	"net/url"
	"testing"

	"github.com/gamehub/portal/internal/domain/entities"
)

type fakeCatalog struct {
	games      []*entities.Game
	categories []*entities.Category
}

func (f fakeCatalog) Games(ctx context.Context) ([]*entities.Game, error) { return f.games, nil }

func (f fakeCatalog) Categories(ctx context.Context) ([]*entities.Category, error) {
	return f.categories, nil
}

func (f fakeCatalog) GetGame(ctx context.Context, id string) (*entities.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, entities.ErrGameNotFound
}

func (f fakeCatalog) GetGameBySlug(ctx context.Context, slug string) (*entities.Game, error) {
	for _, g := range f.games {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, entities.ErrGameNotFound
}

func (f fakeCatalog) GetCategory(ctx context.Context, id string) (*entities.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, entities.ErrCategoryNotFound
}

func (f fakeCatalog) GetCategoryBySlug(ctx context.Context, slug string) (*entities.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, entities.ErrCategoryNotFound
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		categories: []*entities.Category{
			{ID: "cat-racing", Name: "Racing", Slug: "racing"},
			{ID: "cat-puzzle", Name: "Puzzle", Slug: "puzzle"},
		},
		games: []*entities.Game{
			{ID: "g1", Name: "Moto X3M", Slug: "moto-x3m", CategoryID: "cat-racing", Featured: true, Popularity: 90},
			{ID: "g2", Name: "Drift Hunters", Slug: "drift-hunters", CategoryID: "cat-racing", Popularity: 70},
			{ID: "g3", Name: "2048", Slug: "2048", CategoryID: "cat-puzzle", Featured: true, Popularity: 80},
			{ID: "SKU-42", Name: "Tetra", Slug: "tetra", CategoryID: "cat-puzzle", Popularity: 60},
		},
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()

	tests := []struct {
		path     string
		kind     Kind
		canon    string
		gameID   string
		category string
	}{
		{"/", KindHome, "/", "", ""},
		{"", KindHome, "/", "", ""},
		{"/game/moto-x3m", KindGame, "/game/moto-x3m", "g1", "cat-racing"},
		{"/game/MOTO-X3M/", KindGame, "/game/moto-x3m", "g1", "cat-racing"},
		{"/game/g2", KindGame, "/game/drift-hunters", "g2", "cat-racing"},
		{"/game/SKU-42", KindGame, "/game/tetra", "SKU-42", "cat-puzzle"},
		{"/game/TETRA", KindGame, "/game/tetra", "SKU-42", "cat-puzzle"},
		{"/game/sku-42", KindNotFound, "/game/sku-42", "", ""},
		{"/x/../game/2048", KindGame, "/game/2048", "g3", "cat-puzzle"},
		{"/category/racing", KindCategory, "/category/racing", "", "cat-racing"},
		{"/game/unknown", KindNotFound, "/game/unknown", "", ""},
		{"/category/unknown", KindNotFound, "/category/unknown", "", ""},
		{"/game/moto-x3m/extra", KindNotFound, "/game/moto-x3m/extra", "", ""},
		{"/about", KindNotFound, "/about", "", ""},
	}

	for _, tt := range tests {
		page := Resolve(ctx, catalog, tt.path, nil)
		if page.Kind != tt.kind || page.Path != tt.canon {
			t.Errorf("Resolve(%q) = %s %q, want %s %q", tt.path, page.Kind, page.Path, tt.kind, tt.canon)
			continue
		}
		if tt.gameID != "" && (page.Game == nil || page.Game.ID != tt.gameID) {
			t.Errorf("Resolve(%q) game = %+v", tt.path, page.Game)
		}
		if tt.category != "" && (page.Category == nil || page.Category.ID != tt.category) {
			t.Errorf("Resolve(%q) category = %+v", tt.path, page.Category)
		}
	}
}

func TestResolveHomeListsFeatured(t *testing.T) {
	page := Resolve(context.Background(), testCatalog(), "/", nil)
	if len(page.Games) != 2 || page.Games[0].ID != "g1" || page.Games[1].ID != "g3" {
		t.Fatalf("featured = %+v", page.Games)
	}
	if len(page.Categories) != 2 {
		t.Errorf("categories = %d", len(page.Categories))
	}
}

func TestResolveCategoryListsMembers(t *testing.T) {
	page := Resolve(context.Background(), testCatalog(), "/category/racing", nil)
	if len(page.Games) != 2 || page.Games[0].ID != "g1" {
		t.Fatalf("games = %+v", page.Games)
	}
}

func TestResolveSearch(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()

	page := Resolve(ctx, catalog, "/search", url.Values{"q": {" drift "}, "category": {"racing"}})
	if page.Kind != KindSearch || page.Query != "drift" {
		t.Fatalf("page = %+v", page)
	}
	if page.Category == nil || page.Category.ID != "cat-racing" {
		t.Errorf("category slug not resolved: %+v", page.Category)
	}
	if page.Path != "/search?category=cat-racing&q=drift" {
		t.Errorf("path = %q", page.Path)
	}
	if len(page.Games) != 1 || page.Games[0].ID != "g2" {
		t.Errorf("games = %+v", page.Games)
	}

	page = Resolve(ctx, catalog, "/search", url.Values{"category": {"nope"}})
	if page.Category != nil || page.Path != "/search" || len(page.Games) != 4 {
		t.Errorf("unknown category should be ignored: %+v", page)
	}
}

func TestPaths(t *testing.T) {
	if got := GamePath(&entities.Game{Slug: "vex-5"}); got != "/game/vex-5" {
		t.Errorf("GamePath = %q", got)
	}
	if got := CategoryPath(&entities.Category{Slug: "arcade"}); got != "/category/arcade" {
		t.Errorf("CategoryPath = %q", got)
	}
	if got := SearchPath("a b", ""); got != "/search?q=a+b" {
		t.Errorf("SearchPath = %q", got)
	}
}
