package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/ports"
)

// catalogSnapshot is an immutable, indexed view of one catalog load.
type catalogSnapshot struct {
	games          []*entities.Game
	categories     []*entities.Category
	gamesByID      map[string]*entities.Game
	gamesBySlug    map[string]*entities.Game
	categoryByID   map[string]*entities.Category
	categoryBySlug map[string]*entities.Category
	tags           []string
}

func newSnapshot(c *entities.Catalog) (*catalogSnapshot, error) {
	s := &catalogSnapshot{
		games:          make([]*entities.Game, 0, len(c.Games)),
		categories:     make([]*entities.Category, 0, len(c.Categories)),
		gamesByID:      make(map[string]*entities.Game, len(c.Games)),
		gamesBySlug:    make(map[string]*entities.Game, len(c.Games)),
		categoryByID:   make(map[string]*entities.Category, len(c.Categories)),
		categoryBySlug: make(map[string]*entities.Category, len(c.Categories)),
	}

	for _, cat := range c.Categories {
		if cat == nil {
			continue
		}
		cp := *cat
		if cp.Slug == "" {
			cp.Slug = entities.Slugify(cp.Name)
		}
		if _, dup := s.categoryByID[cp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", entities.ErrInvalidCatalog, cp.ID)
		}
		if _, dup := s.categoryBySlug[cp.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate category slug %q", entities.ErrInvalidCatalog, cp.Slug)
		}
		s.categories = append(s.categories, &cp)
		s.categoryByID[cp.ID] = &cp
		s.categoryBySlug[cp.Slug] = &cp
	}

	seenTags := make(map[string]struct{})
	for _, game := range c.Games {
		if game == nil {
			continue
		}
		cp := *game
		cp.Tags = slices.Clone(game.Tags)
		if cp.Slug == "" {
			cp.Slug = entities.Slugify(cp.Name)
		}
		if _, dup := s.gamesByID[cp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate game id %q", entities.ErrInvalidCatalog, cp.ID)
		}
		if _, dup := s.gamesBySlug[cp.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate game slug %q", entities.ErrInvalidCatalog, cp.Slug)
		}
		if _, ok := s.categoryByID[cp.CategoryID]; !ok {
			return nil, fmt.Errorf("%w: game %q references unknown category %q", entities.ErrInvalidCatalog, cp.ID, cp.CategoryID)
		}
		s.games = append(s.games, &cp)
		s.gamesByID[cp.ID] = &cp
		s.gamesBySlug[cp.Slug] = &cp

		for _, t := range cp.Tags {
			key := strings.ToLower(t)
			if _, ok := seenTags[key]; !ok {
				seenTags[key] = struct{}{}
				s.tags = append(s.tags, key)
			}
		}
	}
	slices.Sort(s.tags)

	return s, nil
}

// CatalogRepositoryImpl serves the catalog from memory. Replace swaps the
// whole snapshot atomically so readers never see a partial catalog.
type CatalogRepositoryImpl struct {
	current atomic.Pointer[catalogSnapshot]
}

// NewCatalogRepository indexes catalog and returns a repository over it.
func NewCatalogRepository(catalog *entities.Catalog) (*CatalogRepositoryImpl, error) {
	r := &CatalogRepositoryImpl{}
	if err := r.Replace(catalog); err != nil {
		return nil, err
	}
	return r, nil
}

var _ ports.CatalogRepository = (*CatalogRepositoryImpl)(nil)

// Replace validates and installs a new catalog. On error the old catalog stays in place.
func (r *CatalogRepositoryImpl) Replace(catalog *entities.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: nil catalog", entities.ErrInvalidCatalog)
	}
	snap, err := newSnapshot(catalog)
	if err != nil {
		return err
	}
	r.current.Store(snap)
	return nil
}

// Stats returns the number of games and categories currently loaded.
func (r *CatalogRepositoryImpl) Stats() (games, categories int) {
	s := r.current.Load()
	return len(s.games), len(s.categories)
}

func (r *CatalogRepositoryImpl) Games(ctx context.Context) ([]*entities.Game, error) {
	return slices.Clone(r.current.Load().games), nil
}

func (r *CatalogRepositoryImpl) Categories(ctx context.Context) ([]*entities.Category, error) {
	return slices.Clone(r.current.Load().categories), nil
}

func (r *CatalogRepositoryImpl) GetGame(ctx context.Context, id string) (*entities.Game, error) {
	if g, ok := r.current.Load().gamesByID[id]; ok {
		return g, nil
	}
	return nil, entities.ErrGameNotFound
}

func (r *CatalogRepositoryImpl) GetGameBySlug(ctx context.Context, slug string) (*entities.Game, error) {
	if g, ok := r.current.Load().gamesBySlug[slug]; ok {
		return g, nil
	}
	return nil, entities.ErrGameNotFound
}

func (r *CatalogRepositoryImpl) GetCategory(ctx context.Context, id string) (*entities.Category, error) {
	if c, ok := r.current.Load().categoryByID[id]; ok {
		return c, nil
	}
	return nil, entities.ErrCategoryNotFound
}

func (r *CatalogRepositoryImpl) GetCategoryBySlug(ctx context.Context, slug string) (*entities.Category, error) {
	if c, ok := r.current.Load().categoryBySlug[slug]; ok {
		return c, nil
	}
	return nil, entities.ErrCategoryNotFound
}

func (r *CatalogRepositoryImpl) Tags(ctx context.Context) ([]string, error) {
	return slices.Clone(r.current.Load().tags), nil
}
