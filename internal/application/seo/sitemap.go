package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gamehub/portal/internal/application/routing"
	"github.com/gamehub/portal/internal/domain/entities"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders an XML sitemap covering the home page, every category and every game.
// The home and category lastmod is the newest game date in scope.
func (g *Generator) Sitemap(games []*entities.Game, categories []*entities.Category) ([]byte, error) {
	newestByCategory := make(map[string]time.Time)
	var newest time.Time
	for _, game := range games {
		if game.DateAdded.After(newest) {
			newest = game.DateAdded
		}
		if game.DateAdded.After(newestByCategory[game.CategoryID]) {
			newestByCategory[game.CategoryID] = game.DateAdded
		}
	}

	set := urlSet{Xmlns: sitemapNamespace}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        g.URL("/"),
		LastMod:    lastMod(newest),
		ChangeFreq: "daily",
		Priority:   "1.0",
	})
	for _, c := range categories {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        g.URL(routing.CategoryPath(c)),
			LastMod:    lastMod(newestByCategory[c.ID]),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, game := range games {
		priority := "0.6"
		if game.Featured {
			priority = "0.7"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        g.URL(routing.GamePath(game)),
			LastMod:    lastMod(game.DateAdded),
			ChangeFreq: "monthly",
			Priority:   priority,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

// Robots renders robots.txt: everything crawlable except the API, with the sitemap location.
func (g *Generator) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /ws/\n")
	b.WriteString("Disallow: /search\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", g.URL("/sitemap.xml"))
	return b.String()
}
