package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gamehub/portal/internal/application/routing"
	"github.com/gamehub/portal/internal/application/seo"
	"github.com/gamehub/portal/internal/ports"
)

// SEOService resolves pages and renders their metadata, the sitemap and robots.txt
type SEOService struct {
	catalog ports.CatalogRepository
	gen     *seo.Generator
}

// NewSEOService creates a new SEO service
func NewSEOService(catalog ports.CatalogRepository, gen *seo.Generator) (*SEOService, error) {
	if catalog == nil || gen == nil {
		return nil, errors.New("SEO service requires a catalog and a generator")
	}
	return &SEOService{catalog: catalog, gen: gen}, nil
}

// Resolve maps a request path onto a page. Unknown paths yield the not-found page.
func (s *SEOService) Resolve(ctx context.Context, path string, query url.Values) routing.Page {
	return routing.Resolve(ctx, s.catalog, path, query)
}

// Head builds the head for an already resolved page
func (s *SEOService) Head(page routing.Page) seo.Head {
	return s.gen.HeadFor(page)
}

// Page resolves path and builds the head for it
func (s *SEOService) Page(ctx context.Context, path string, query url.Values) (routing.Page, seo.Head) {
	page := s.Resolve(ctx, path, query)
	return page, s.Head(page)
}

// Sitemap renders sitemap.xml for the current catalog
func (s *SEOService) Sitemap(ctx context.Context) ([]byte, error) {
	games, err := s.catalog.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return s.gen.Sitemap(games, categories)
}

// Robots renders robots.txt
func (s *SEOService) Robots() string {
	return s.gen.Robots()
}
