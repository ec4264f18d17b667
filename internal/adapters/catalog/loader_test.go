package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gamehub/portal/internal/domain/entities"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := NewLoader("").Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(c.Games) == 0 || len(c.Categories) == 0 {
		t.Fatalf("expected embedded catalog to have games and categories, got %d/%d", len(c.Games), len(c.Categories))
	}

	var found *entities.Game
	for _, g := range c.Games {
		if g.Name == "Geometry Dash Spam Test" {
			found = g
		}
	}
	if found == nil {
		t.Fatal("expected Geometry Dash Spam Test in embedded catalog")
	}
	if found.DateAdded.IsZero() {
		t.Error("expected dateAdded to be decoded")
	}
	if found.Metadata.Controls == "" {
		t.Error("expected metadata to be decoded")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
categories:
  - id: puzzle
    name: Puzzle
games:
  - id: sudoku
    name: Sudoku
    url: https://example.com/sudoku
    category: puzzle
    popularity: 50
    dateAdded: 2024-06-01
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(c.Games) != 1 || c.Games[0].ID != "sudoku" {
		t.Fatalf("unexpected games: %+v", c.Games)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
  "categories": [{"id": "arcade", "name": "Arcade"}],
  "games": [{
    "id": "snake", "name": "Snake", "url": "https://example.com/snake",
    "category": "arcade", "tags": ["retro"], "dateAdded": "2024-01-02T00:00:00Z"
  }]
}`
	c, err := NewLoader("").Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if got := c.Games[0].DateAdded.Day(); got != 2 {
		t.Errorf("expected day 2, got %d", got)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"not an object":    `[1, 2]`,
		"missing games":    `categories: []`,
		"unknown field":    "categories: []\ngames: []\nextra: 1\n",
		"popularity range": "categories: [{id: a, name: A}]\ngames: [{id: g, name: G, url: 'https://x.io', category: a, popularity: 150}]\n",
		"missing url":      "categories: [{id: a, name: A}]\ngames: [{id: g, name: G, category: a}]\n",
		"invalid url":      "categories: [{id: a, name: A}]\ngames: [{id: g, name: G, url: 'not a url', category: a}]\n",
		"bad slug":         "categories: [{id: a, name: A, slug: 'Bad Slug'}]\ngames: []\n",
		"malformed yaml":   "categories: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader("").Parse([]byte(doc))
			if !errors.Is(err, entities.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
